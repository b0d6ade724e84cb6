// SPDX-License-Identifier: MPL-2.0

// Package npm manages the exact-version npm sub-dependencies a package
// manifest pins.
//
// Pins are installed into a per-package directory through the system npm
// client and recorded in a pins file next to the install tree; a later
// Ensure call with an unchanged pin set is a no-op. Fuzzy version ranges
// are rejected outright, installs must be byte-reproducible.
package npm
