// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gte

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 日志转存到控制台上

func NewRecordToTTY() gtw.RecordPool {
	return gtw.NewRecordPool(func(rt *gtw.Record0) {
		z.Println(ToFmt(rt))
	})
}

// -----------------------------------
// 日志转存到文件, 每行一个 json

func NewRecordToFile(file string) (gtw.RecordPool, z.Closed, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, err
	}
	out, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	enc := json.NewEncoder(out)
	queue := newRecordQueue(1024, func(rt *gtw.Record0) {
		if err := enc.Encode(rt); err != nil {
			z.Printf("[_record_]: write file %s, %v\n", file, err)
		}
	})
	closed := func() {
		queue.Close()
		out.Close()
	}
	return gtw.NewRecordPool(queue.push), closed, nil
}
