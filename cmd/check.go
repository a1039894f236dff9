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

	"github.com/suisrc/zcas/app/kwcas"
	"github.com/suisrc/zcas/z/zc"
)

func Check() {
	if err := RunCheck(os.Args[1:], os.Stdout); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// zcas check -c a.yaml[,b.yaml], 打印所有生效的路由规则
func RunCheck(args []string, out io.Writer) error {
	var cfs string
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfs, "c", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfs == "" {
		return errors.New("usage: check -c file.yaml")
	}
	conf := new(struct {
		Kwcas kwcas.Config `json:"kwcas" envPrefix:"KWCAS_"`
	})
	if err := zc.LoadFile(conf, cfs); err != nil {
		return err
	}
	def, rules, err := kwcas.BuildRules(&conf.Kwcas)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		fmt.Fprintln(out, rule.String())
	}
	if def != nil {
		fmt.Fprintln(out, def.String())
	}
	fmt.Fprintf(out, "ok, %d rules\n", len(rules))
	return nil
}
