package cms

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/colorcore/cms/icc"
)

// colorspaceValidation is the shape validator/v10 checks a Colorspace's
// whitepoint against: each component must be finite and strictly
// positive. A present
// Primaries struct is implicitly complete since Primaries is a fixed
// R/G/B struct rather than a slice (so "exactly three chromaticities"
// is a type-level guarantee, not something a struct tag can lapse on).
type colorspaceValidation struct {
	WhitepointX float64 `validate:"required,gt=0,finite"`
	WhitepointY float64 `validate:"required,gt=0,finite"`
	WhitepointZ float64 `validate:"required,gt=0,finite"`
}

var colorValidator = validator.New()

func init() {
	colorValidator.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
	colorValidator.RegisterValidation("iccclass", func(fl validator.FieldLevel) bool {
		switch icc.ProfileClass(fl.Field().Uint()) {
		case icc.InputDeviceProfile, icc.DisplayDeviceProfile, icc.OutputDeviceProfile,
			icc.DeviceLinkProfile, icc.ColorSpaceProfile, icc.AbstractProfile, icc.NamedColorProfile:
			return true
		}
		return false
	})
	colorValidator.RegisterValidation("iccspace", func(fl validator.FieldLevel) bool {
		switch icc.ColorSpace(fl.Field().Uint()) {
		case icc.CIEXYZSpace, icc.CIELabSpace, icc.CIELuvSpace, icc.YCbCrSpace, icc.CIEYxySpace,
			icc.RGBSpace, icc.GraySpace, icc.HSVSpace, icc.HLSSpace, icc.CMYKSpace, icc.CMYSpace,
			icc.Color2Space, icc.Color3Space, icc.Color4Space, icc.Color5Space, icc.Color6Space,
			icc.Color7Space, icc.Color8Space, icc.Color9Space, icc.Color10Space, icc.Color11Space,
			icc.Color12Space, icc.Color13Space, icc.Color14Space, icc.Color15Space:
			return true
		}
		return false
	})
	colorValidator.RegisterValidation("iccpcs", func(fl validator.FieldLevel) bool {
		switch icc.ColorSpace(fl.Field().Uint()) {
		case icc.PCSXYZSpace, icc.PCSLabSpace:
			return true
		}
		return false
	})
}

// validateColor checks the non-null and structural invariants §4.8
// requires before planning begins, wrapping any failure into the core's
// own error taxonomy rather than exposing validator.ValidationErrors.
func validateColor(op string, c *Color) error {
	if c == nil {
		return errArgumentNull(op, "color must not be nil")
	}
	if c.Space == nil {
		return errArgumentNull(op, "color.Space must not be nil")
	}
	if c.Values == nil {
		return errArgumentNull(op, "color.Values must not be nil")
	}
	if len(c.Values) != c.Space.EffectiveKind().NumChannels() {
		return errConversionSetup(op, "color value count does not match its colorspace's channel count")
	}

	cv := colorspaceValidation{
		WhitepointX: c.Space.Whitepoint[0],
		WhitepointY: c.Space.Whitepoint[1],
		WhitepointZ: c.Space.Whitepoint[2],
	}
	if err := colorValidator.Struct(cv); err != nil {
		return errConversionSetupWrap(op, "colorspace whitepoint failed validation", err)
	}

	if c.Space.ICC != nil {
		if err := validateICCProfile(op, c.Space.ICC.Profile); err != nil {
			return err
		}
	}
	return nil
}

// validateICCProfile checks that a profile reached through a Colorspace
// declares a recognised Class, ColorSpace and PCS before the Planner
// trusts those fields to pick a branch. Each check runs through a
// registered custom validation function rather than an inline switch, so
// the same "finite"-style mechanism covers both numeric and enum fields.
func validateICCProfile(op string, p *icc.Profile) error {
	if p == nil {
		return errArgumentNull(op, "icc profile must not be nil")
	}
	if err := colorValidator.Var(uint32(p.Class), "iccclass"); err != nil {
		registryLogger.Warn("icc profile failed validation", "op", op, "field", "Class", "value", p.Class)
		return errIccProfileInvariant(op, "unrecognised profile class", err)
	}
	if err := colorValidator.Var(uint32(p.ColorSpace), "iccspace"); err != nil {
		registryLogger.Warn("icc profile failed validation", "op", op, "field", "ColorSpace", "value", p.ColorSpace)
		return errIccProfileInvariant(op, "unrecognised profile color space", err)
	}
	if err := colorValidator.Var(uint32(p.PCS), "iccpcs"); err != nil {
		registryLogger.Warn("icc profile failed validation", "op", op, "field", "PCS", "value", p.PCS, "pcs_name", p.PCSName())
		return errIccProfileInvariant(op, "profile PCS must be XYZ or Lab", err)
	}
	if n := p.ColorSpace.NumComponents(); n != kindFromICCSpace(p.ColorSpace).NumChannels() {
		registryLogger.Warn("icc profile failed validation", "op", op, "field", "ColorSpace", "value", p.ColorSpace, "declared_components", n)
		return errIccProfileInvariant(op, "profile color space component count does not match its mapped Kind", nil)
	}
	return nil
}
