// Package util provides small, dependency free data structures shared by the
// client packages.
//
// The package contains:
//   - orderedmap: A string keyed map that remembers insertion order and keeps
//     the key order of JSON objects when (un)marshalling
//
// The ordered map exists because search engine responses are frequently keyed
// objects (index name -> settings, alias name -> definition) whose key order is
// meaningful to the caller, while Go maps iterate in random order.
package util
