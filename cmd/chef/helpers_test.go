// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/chefkit/chef/internal/config"
	"github.com/chefkit/chef/pkg/convert"
	"github.com/chefkit/chef/pkg/cooklang"
)

// newTestSession builds a session with the default configuration, as
// loadSession would without any config file.
func newTestSession(t *testing.T, collection string) *session {
	t.Helper()
	conv := convert.Default()
	return &session{
		cfg:        config.DefaultConfig(),
		collection: collection,
		converter:  conv,
		parser:     cooklang.NewParser(cooklang.WithConverter(conv)),
	}
}

// parseScaled parses text and scales it to its first serving tier.
func parseScaled(t *testing.T, s *session, text, name string) *cooklang.Recipe {
	t.Helper()
	r, err := s.parser.Parse(text, name)
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", name, err)
	}
	scaled, err := r.ScaleBy(1)
	if err != nil {
		t.Fatalf("ScaleBy(1) error: %v", err)
	}
	return scaled
}
