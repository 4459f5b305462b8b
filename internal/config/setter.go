package config

import (
	"fmt"
	"strconv"
	"time"
)

// Setters apply a layer value only when it is present, so lower layers
// (defaults, then file) survive unset keys.

func setString(value string, dst *string) {
	if value == "" {
		return
	}
	*dst = value
}

func setInt(value int, dst *int) {
	if value <= 0 {
		return
	}
	*dst = value
}

func setBool(value *bool, dst *bool) {
	if value == nil {
		return
	}
	*dst = *value
}

// setDuration parses a Go duration ("5s"). A bare number is read as seconds.
func setDuration(key, value string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setIntFromString(key, value string, dst *int) error {
	if value == "" {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	setInt(i, dst)
	return nil
}

func setBoolFromString(key, value string, dst *bool) error {
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = b
	return nil
}
