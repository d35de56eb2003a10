// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package fsadef

import (
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// DecodeYAML decodes a YAML (or JSON) definition.
// Unknown fields are rejected.
func DecodeYAML(src io.Reader) (*Definition, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	d := new(Definition)
	if err := yaml.UnmarshalStrict(buf, d); err != nil {
		return nil, fmt.Errorf("decoding definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// EncodeYAML writes d as YAML.
func EncodeYAML(dst io.Writer, d *Definition) error {
	buf, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	_, err = dst.Write(buf)
	return err
}
