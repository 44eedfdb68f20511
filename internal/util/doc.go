// Package util holds internal text helpers shared by the advisor templates.
package util
