// File: gateway/negotiate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gateway

import "github.com/momentics/hioload-gw/api"

// Negotiate picks the sub-protocol for a new connection: the first entry
// of the handler's ordered list that the peer offered. A handler with an
// empty list needs no sub-protocol and always negotiates successfully with
// the empty name.
func Negotiate(offered []string, h api.Handler) (string, bool) {
	supported := h.SubProtocols()
	if len(supported) == 0 {
		return "", true
	}
	for _, want := range supported {
		for _, have := range offered {
			if want == have {
				return want, true
			}
		}
	}
	return "", false
}
