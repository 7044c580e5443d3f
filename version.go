package main

import "github.com/blang/semver"

var version = semver.MustParse("0.1.0")
