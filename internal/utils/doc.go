// Package utils provides small helpers shared by the command layer.
package utils
