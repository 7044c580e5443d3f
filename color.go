package main

import (
	"github.com/fatih/color"
)

func Red(s string) string {
	return color.New(color.FgHiRed).SprintFunc()(s)
}

func Yellow(s string) string {
	return color.New(color.FgHiYellow).SprintFunc()(s)
}
