// Package infra contains technical adapters such as the Google
// Calendar source, metrics exporters and the plan store. These packages
// should depend only on the interfaces defined in the core packages.
package infra
