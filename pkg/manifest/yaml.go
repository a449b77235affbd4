package manifest

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// yamlDocument wraps a node tree so comments and key order survive a rewrite.
type yamlDocument struct {
	root yaml.Node
}

var _ Document = (*yamlDocument)(nil)

func parseYAML(data []byte) (*yamlDocument, error) {
	doc := &yamlDocument{}
	if err := yaml.Unmarshal(data, &doc.root); err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	if doc.root.Kind != yaml.DocumentNode || len(doc.root.Content) == 0 ||
		doc.root.Content[0].Kind != yaml.MappingNode {
		return nil, validation(errMalformed, "top-level value must be a mapping")
	}
	return doc, nil
}

func (d *yamlDocument) versionNode() (*yaml.Node, error) {
	mapping := d.root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != VersionKey {
			continue
		}
		value := mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
			return nil, validation(errVersionNotString, "%q", value.Value)
		}
		return value, nil
	}
	return nil, validation(errMissingVersion, "yaml")
}

func (d *yamlDocument) Version() (string, error) {
	node, err := d.versionNode()
	if err != nil {
		return "", err
	}
	return node.Value, nil
}

func (d *yamlDocument) SetVersion(v string) error {
	node, err := d.versionNode()
	if err != nil {
		return err
	}
	node.Value = v
	node.Tag = "!!str"
	return nil
}

func (d *yamlDocument) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(&d.root); err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	if err := enc.Close(); err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	return buf.Bytes(), nil
}
