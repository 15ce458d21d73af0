//go:build tools
// +build tools

// Package tools pins the code generators and linters used by the build.
package tools

import (
	_ "github.com/client9/misspell/cmd/misspell"
	_ "github.com/maxbrunsfeld/counterfeiter/v6"
	_ "github.com/onsi/ginkgo/v2/ginkgo"
	_ "golang.org/x/tools/cmd/goimports"
	_ "honnef.co/go/tools/cmd/staticcheck"
)
