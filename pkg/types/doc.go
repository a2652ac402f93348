// Package types defines the entity types, record keys, configuration, and
// standard error values shared by the forge catalogue packages.
//
// Assets and categories serialize with the camelCase field names used by the
// stored records, so catalogues written by earlier releases load unchanged.
package types
