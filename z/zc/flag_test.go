// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package zc_test

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suisrc/zcas/z/zc"
)

// go test -v z/zc/flag_test.go -run Test_flag

func Test_flag(t *testing.T) {
	var (
		debug  bool
		enable *bool
		name   string
		sites  []string
		routes map[string]string
	)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(zc.NewBoolVal(&debug), "debug", "")
	fs.Var(zc.NewBoolPtr(&enable), "cas", "")
	fs.Var(zc.NewStrVal(&name, "def"), "name", "")
	fs.Var(zc.NewStrArr(&sites, []string{"a"}), "sites", "")
	fs.Var(zc.NewStrMap(&routes, map[string]string{}), "routes", "")

	assert.Equal(t, "def", name)
	assert.Equal(t, []string{"a"}, sites)
	assert.Nil(t, enable)

	require.NoError(t, fs.Parse([]string{"-debug", "-name", "kwcas", "-sites", "x,y", "-routes", "/api=http://a,/b=http://b"}))
	assert.True(t, debug)
	assert.Nil(t, enable) // 未设置
	assert.Equal(t, "kwcas", name)
	assert.Equal(t, []string{"x", "y"}, sites)
	assert.Equal(t, map[string]string{"/api": "http://a", "/b": "http://b"}, routes)
}

// go test -v z/zc/flag_test.go -run Test_flag_bool_ptr

func Test_flag_bool_ptr(t *testing.T) {
	var enable *bool
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(zc.NewBoolPtr(&enable), "cas", "")

	require.NoError(t, fs.Parse([]string{"-cas=false"}))
	require.NotNil(t, enable)
	assert.False(t, *enable)

	require.NoError(t, fs.Parse([]string{"-cas"}))
	assert.True(t, *enable)
	assert.Error(t, fs.Parse([]string{"-cas=maybe"}))
}
