// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlUnmarshalStrict decodes data with unknown-field checking enabled, so
// a typo'd TypeSpec key (e.g. "elemt" for "elem") fails to parse instead of
// silently building the wrong type.
func yamlUnmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
