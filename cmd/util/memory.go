package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/ValentinKolb/esclient/lib/util"
	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/transport/memory"
)

// aliasRegistry keeps the aliases of a cluster in memory, per index in the
// order the indices were first seen
type aliasRegistry struct {
	mu      sync.Mutex
	indices *util.OrderedMap[*util.OrderedMap[client.AliasDefinition]]
}

// NewMemoryAliasTransport returns a memory transport that serves the alias
// APIs from a registry living as long as the transport
func NewMemoryAliasTransport() *memory.MemoryTransport {
	r := &aliasRegistry{indices: util.NewOrderedMap[*util.OrderedMap[client.AliasDefinition]]()}
	return memory.NewMemoryTransport().
		Handle(http.MethodPost, "/_aliases", r.update).
		Fallback(r.lookup)
}

// update applies the actions of an update aliases body in order. The actions
// run against a copy of the registry which only replaces it if all succeed.
func (r *aliasRegistry) update(req *common.Request) (int, []byte) {
	var body client.AliasActions
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return errorBody(http.StatusBadRequest, fmt.Sprintf("failed to parse actions: %v", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scratch := r.clone()
	for _, action := range body.Actions {
		switch {
		case action.Add != nil:
			a := action.Add
			if a.Index == "" || a.Alias == "" {
				return errorBody(http.StatusBadRequest, "add requires index and alias")
			}
			aliases, ok := scratch.Get(a.Index)
			if !ok {
				aliases = util.NewOrderedMap[client.AliasDefinition]()
			}
			def := client.AliasDefinition{
				Filter:        a.Filter,
				IndexRouting:  firstNonEmpty(a.IndexRouting, a.Routing),
				SearchRouting: firstNonEmpty(a.SearchRouting, a.Routing),
				IsWriteIndex:  a.IsWriteIndex,
			}
			scratch.Set(a.Index, setAlias(aliases, a.Alias, &def))
		case action.Remove != nil:
			a := action.Remove
			aliases, _ := scratch.Get(a.Index)
			if !aliases.Has(a.Alias) {
				return errorBody(http.StatusNotFound, fmt.Sprintf("aliases [%s] missing", a.Alias))
			}
			scratch.Set(a.Index, setAlias(aliases, a.Alias, nil))
		default:
			return errorBody(http.StatusBadRequest, "action requires add or remove")
		}
	}

	r.indices = scratch
	return http.StatusOK, []byte(`{"acknowledged":true}`)
}

// clone copies the registry down to the alias lists
func (r *aliasRegistry) clone() *util.OrderedMap[*util.OrderedMap[client.AliasDefinition]] {
	indices := util.NewOrderedMap[*util.OrderedMap[client.AliasDefinition]]()
	r.indices.Range(func(index string, aliases *util.OrderedMap[client.AliasDefinition]) bool {
		copied := util.NewOrderedMap[client.AliasDefinition]()
		aliases.Range(func(alias string, def client.AliasDefinition) bool {
			copied.Set(alias, def)
			return true
		})
		indices.Set(index, copied)
		return true
	})
	return indices
}

// lookup answers GET and HEAD on /_alias, /_alias/{name}, /{index}/_alias and
// /{index}/_alias/{name}. Index and alias names may contain * wildcards.
func (r *aliasRegistry) lookup(req *common.Request) (int, []byte) {
	indices, name, ok := parseAliasPath(req.Path)
	if !ok || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
		return errorBody(http.StatusNotFound, fmt.Sprintf("no handler found for [%s %s]", req.Method, req.Path))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resp := client.GetAliasesResponse{Indices: util.NewOrderedMap[[]client.AliasDefinition]()}
	found := false
	r.indices.Range(func(index string, aliases *util.OrderedMap[client.AliasDefinition]) bool {
		if len(indices) > 0 && !matchesAny(indices, index) {
			return true
		}
		matched := make([]client.AliasDefinition, 0)
		aliases.Range(func(alias string, def client.AliasDefinition) bool {
			if name == "" || matchesAny(strings.Split(name, ","), alias) {
				def.Name = alias
				matched = append(matched, def)
			}
			return true
		})
		// a listing by name only shows indices carrying a matching alias
		if name == "" || len(matched) > 0 {
			resp.Indices.Set(index, matched)
			found = found || len(matched) > 0
		}
		return true
	})

	status := http.StatusOK
	if name != "" && !found {
		status = http.StatusNotFound
	}
	if req.Method == http.MethodHead {
		return status, nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return errorBody(http.StatusInternalServerError, err.Error())
	}
	return status, b
}

// setAlias returns aliases with name set to def, or removed if def is nil
func setAlias(aliases *util.OrderedMap[client.AliasDefinition], name string, def *client.AliasDefinition) *util.OrderedMap[client.AliasDefinition] {
	if def != nil {
		aliases.Set(name, *def)
		return aliases
	}
	// OrderedMap has no delete, rebuild without name
	rebuilt := util.NewOrderedMap[client.AliasDefinition]()
	aliases.Range(func(alias string, d client.AliasDefinition) bool {
		if alias != name {
			rebuilt.Set(alias, d)
		}
		return true
	})
	return rebuilt
}

// parseAliasPath splits an alias path into the index list and the alias name
func parseAliasPath(p string) (indices []string, name string, ok bool) {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		unescaped, err := url.PathUnescape(s)
		if err != nil {
			return nil, "", false
		}
		segments[i] = unescaped
	}

	at := slices.Index(segments, "_alias")
	if at < 0 || at > 1 || len(segments) > at+2 {
		return nil, "", false
	}
	if at == 1 {
		indices = strings.Split(segments[0], ",")
	}
	if len(segments) == at+2 {
		name = segments[at+1]
	}
	return indices, name, true
}

func matchesAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if p == "_all" || p == s {
			return true
		}
		if ok, err := path.Match(p, s); err == nil && ok {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func errorBody(status int, reason string) (int, []byte) {
	b, _ := json.Marshal(map[string]any{"error": map[string]string{"reason": reason}, "status": status})
	return status, b
}
