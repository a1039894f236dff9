// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/ze/cas"
)

func init() {
	z.CMD["loginurl"] = LoginURL // 打印登录重定向地址
	z.CMD["check"] = Check       // 检查配置文件
}

func LoginURL() {
	if err := RunLoginURL(os.Args[1:], os.Stdout); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// zcas loginurl -login URL -service URL [-cookie NAME] [-ticket VALUE] PATH[?QUERY]
func RunLoginURL(args []string, out io.Writer) error {
	var (
		opts   cas.Options
		ticket string
	)
	fs := flag.NewFlagSet("loginurl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.LoginURL, "login", "", "cas login url")
	fs.StringVar(&opts.ServiceURL, "service", "", "cas service url")
	fs.StringVar(&opts.Cookie, "cookie", cas.DefaultCookie, "cas ticket cookie name")
	fs.StringVar(&ticket, "ticket", "", "cookie header of the request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: loginurl -login URL -service URL [-cookie NAME] [-ticket COOKIE] PATH[?QUERY]")
	}
	opts.Enable = z.Ptr(true)
	cfg, err := cas.NewConfig(opts)
	if err != nil {
		return err
	}
	path, query, _ := strings.Cut(fs.Arg(0), "?")
	var headers []string
	if ticket != "" {
		headers = []string{ticket}
	}
	res := cas.NewGate(cfg).Decide(headers, path, query)
	switch res.Decision {
	case cas.Challenge:
		fmt.Fprintln(out, res.Location)
	case cas.Ticketed:
		fmt.Fprintf(out, "%d %s=%s\n", res.Status, cfg.CookieName, res.Ticket)
	default:
		return fmt.Errorf("%s: %v", res.Decision, res.Err)
	}
	return nil
}
