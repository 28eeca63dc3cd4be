// Package cms implements the conversion core of a color management system:
// it plans and executes conversions between color spaces, including paths
// that traverse one or two ICC profiles, apply chromatic adaptation between
// differing reference whites, and compose primitive color-space transforms.
//
// The ICC binary reader/writer lives in the sibling icc package; cms checks
// an *icc.Profile's header fields (class, color space, PCS) before planning
// and builds transform stages on top of icc.Transform.
package cms
