// Package catalog loads module catalogs.
//
// A catalog describes the standard modules a host expects to find on a
// device: their names, versions and function signatures. Catalogs are YAML
// files; the builtin catalog for the simulated board is embedded and
// returned by Default.
//
// Each entry carries a content identifier derived from its name, version and
// signatures. Bind compares the identifier with the one the device reports,
// so a host built against a different revision of a module is refused.
package catalog
