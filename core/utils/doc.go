// Package utils provides common utility functions for the library-manager application.
// It includes the string and number coercions used when reading spreadsheet cells,
// and small pointer helpers for optional fields.
package utils
