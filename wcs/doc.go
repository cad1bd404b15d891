// Package wcs collects World Coordinate System keywords from a header.
//
// FromHeader gathers WCSAXES, CTYPEi, CUNITi, CRVALi, CRPIXi, CDELTi and
// the CDi_j and PCi_j matrices. It performs no projection math; the
// values are exposed as decoded so callers can feed them to a WCS
// library.
package wcs
