package alias

import (
	"testing"

	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/spf13/cobra"
)

// TestCustomizeGet tests that only given flags end up in the request
func TestCustomizeGet(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		args    []string
		local   string
		indices []string
		alias   string
	}{
		{name: "No flags"},
		{name: "Local", flags: []string{"--local"}, local: "true"},
		{name: "Local false", flags: []string{"--local=false"}, local: "false"},
		{name: "Index and alias", flags: []string{"--index", "a,b"}, args: []string{"logs"}, indices: []string{"a", "b"}, alias: "logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "get"}
			setupGetFlags(cmd)
			if err := cmd.ParseFlags(tt.flags); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			p := customizeGet(cmd, tt.args)(client.NewGetAliasesDescriptor()).RequestParameters()

			query := p.Base().QueryString()
			if _, sent := query["local"]; sent != (tt.local != "") || query.Get("local") != tt.local {
				t.Errorf("local query = %v, want %q", query, tt.local)
			}
			if len(p.Indices) != len(tt.indices) || (len(tt.indices) > 0 && (p.Indices[0] != tt.indices[0] || p.Indices[1] != tt.indices[1])) {
				t.Errorf("indices = %v, want %v", p.Indices, tt.indices)
			}
			if p.Name != tt.alias {
				t.Errorf("alias = %q, want %q", p.Name, tt.alias)
			}
		})
	}
}
