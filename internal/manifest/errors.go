package manifest

import "errors"

var (
	ErrRecipe       = errors.New("invalid recipe")
	ErrRequirements = errors.New("invalid requirements manifest")
	ErrService      = errors.New("invalid service definition")
)
