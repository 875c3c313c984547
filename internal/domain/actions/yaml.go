package actions

import (
	"gopkg.in/yaml.v3"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// UnmarshalYAML decodes the data block into the payload type chosen by the id
func (e *Effect) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Kind     EffectKind `yaml:"id"`
		Data     yaml.Node  `yaml:"data"`
		Children []Effect   `yaml:"children"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	data, err := newPayload(raw.Kind)
	if err != nil {
		return apperrors.Wrapf(err, "line %d", value.Line)
	}
	if !raw.Data.IsZero() {
		if err := raw.Data.Decode(data); err != nil {
			return apperrors.WrapWithCode(err, apperrors.CodeContent, "bad "+string(raw.Kind)+" data")
		}
	}

	e.Kind = raw.Kind
	e.Data = data
	e.Children = raw.Children
	return nil
}
