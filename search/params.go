package search

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/domino14/catsearch/board"
)

var ErrInvalidParams = errors.New("invalid search parameters")

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("symmetry", validateSymmetry); err != nil {
		panic(err)
	}
}

func validateSymmetry(fl validator.FieldLevel) bool {
	_, err := board.ParseSymmetry(fl.Field().String())
	return err == nil
}

type CatalystParams struct {
	RLE string `yaml:"rle" validate:"required"`
	DX  int    `yaml:"dx"`
	DY  int    `yaml:"dy"`
	// Symmetries lists the orientations to try; empty means identity only.
	Symmetries []string `yaml:"symmetries" validate:"dive,symmetry"`
}

// TargetParams describes an object that must appear once the catalysts
// have recovered.
type TargetParams struct {
	RLE          string `yaml:"rle" validate:"required"`
	DX           int    `yaml:"dx"`
	DY           int    `yaml:"dy"`
	// MaxJunk caps the cells left over beside the target; a match needs
	// fewer than MaxJunk. -1, the default, disables the check.
	MaxJunk      int    `yaml:"max-junk" validate:"gte=-1"`
	MatchSurvive int    `yaml:"match-survive" validate:"gte=0"`
}

// UnmarshalYAML fills in MaxJunk as -1 (no limit) when the key is absent.
func (t *TargetParams) UnmarshalYAML(value *yaml.Node) error {
	type plain TargetParams
	p := plain{MaxJunk: -1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = TargetParams(p)
	return nil
}

type Window struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w" validate:"gte=1,lte=64"`
	H int `yaml:"h" validate:"gte=1,lte=64"`
}

type Params struct {
	Reaction   string           `yaml:"reaction" validate:"required"`
	ReactionDX int              `yaml:"reaction-dx"`
	ReactionDY int              `yaml:"reaction-dy"`
	Catalysts  []CatalystParams `yaml:"catalysts" validate:"required,min=1,dive"`

	Count     int    `yaml:"count" validate:"gte=1,lte=8"`
	Window    Window `yaml:"window"`
	MaxWidth  int    `yaml:"max-width" validate:"gte=-1"`
	MaxHeight int    `yaml:"max-height" validate:"gte=-1"`

	// A catalyst may first be touched no earlier than StartGen and no later
	// than LastGen.
	StartGen     int `yaml:"start-gen" validate:"gte=0"`
	LastGen      int `yaml:"last-gen" validate:"gtefield=StartGen,lte=10000"`
	RecoveryGens int `yaml:"recovery-gens" validate:"gte=1"`
	// StableGens is how long every catalyst must stay whole before a
	// result is taken.
	StableGens int `yaml:"stable-gens" validate:"gte=1"`

	Target     *TargetParams `yaml:"target"`
	MaxResults int           `yaml:"max-results" validate:"gte=0"`

	// RemoveGliders deletes gliders reaching the left and right edges
	// while a placement is evaluated, so they can't wrap round into the
	// catalysts.
	RemoveGliders bool `yaml:"remove-gliders"`
}

func defaultParams() Params {
	return Params{
		MaxWidth:     -1,
		MaxHeight:    -1,
		Count:        1,
		RecoveryGens: 10,
		StableGens:   3,
	}
}

// ParseParams decodes YAML params over the defaults and validates them.
func ParseParams(data []byte) (*Params, error) {
	p := defaultParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseParams(data)
}

func (p *Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
