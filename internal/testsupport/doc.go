// Package testsupport provides helpers shared by gazette tests: seeded
// configs and dataset tree builders rooted in per-test temp directories.
package testsupport
