// Package config loads the optional unityhook HCL configuration file and
// supplies defaults for every setting the file omits.
package config
