// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config provides configuration management for devfront.
//
// Precedence is ENV > YAML file > defaults. Environment keys use the
// DEVFRONT_ prefix; the YAML file is parsed strictly.
package config
