// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// 日志处理

package zc

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	Std = NewLogger(os.Stdout)
	Log = Std

	LogTrackFile = false
	// 配置加载完成后初始化日志, 例如切换到 syslog
	InitLoggerFn = func() {}
)

// 直接输出到终端
func Printl0(v ...any) {
	Std.Output(2, func(b []byte) []byte { return fmt.Appendln(b, v...) })
}

// ----------------------------------------------------------------------------

type Logger interface {
	Output(depth int, append func([]byte) []byte) error
}

func NewLogger(w io.Writer) Logger {
	logger := &logger0{out: w}
	logger.pool.New = func() any { return new([]byte) }
	return logger
}

type logger0 struct {
	pool sync.Pool
	lock sync.Mutex
	out  io.Writer
}

func GetBuffer(pool *sync.Pool) *[]byte {
	return pool.Get().(*[]byte)
}

func PutBuffer(pool *sync.Pool, buf *[]byte) {
	// See https://go.dev/issue/23199
	if cap(*buf) > 64<<10 {
		*buf = nil
	}
	*buf = (*buf)[:0]
	pool.Put(buf)
}

// 2006-01-02 15:04:05.000000 file:line] message
func (log *logger0) Output(depth int, appbuf func([]byte) []byte) error {
	now := time.Now() // get this early.

	buf := GetBuffer(&log.pool)
	defer PutBuffer(&log.pool, buf)

	*buf = now.AppendFormat(*buf, "2006-01-02 15:04:05.000000")
	if LogTrackFile && depth > 0 {
		*buf = append(*buf, ' ')
		*buf = AppendCaller(*buf, depth+1)
	}
	*buf = append(*buf, ']', ' ')
	*buf = appbuf(*buf)
	if len(*buf) == 0 || (*buf)[len(*buf)-1] != '\n' {
		*buf = append(*buf, '\n')
	}

	log.lock.Lock()
	defer log.lock.Unlock()
	_, err := log.out.Write(*buf)
	return err
}

// 追加调用位置, dir/file.go:line
func AppendCaller(buf []byte, depth int) []byte {
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		return append(buf, "???:1"...)
	}
	if slash := strings.LastIndex(file, "/"); slash >= 0 {
		if dirsep := strings.LastIndex(file[:slash], "/"); dirsep >= 0 {
			file = file[dirsep+1:]
		} else {
			file = file[slash+1:]
		}
	}
	return fmt.Appendf(buf, "%s:%d", file, line)
}
