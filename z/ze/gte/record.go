// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gte

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 根据配置创建访问记录池
// "": 不记录; "tty": 输出到日志; "file:<path>": 追加到文件; "mysql": 写入数据库
func NewRecordPool(spec string, mcfg *MysqlConfig) (gtw.RecordPool, z.Closed, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	switch kind {
	case "":
		return nil, nil, nil
	case "tty":
		return NewRecordToTTY(), nil, nil
	case "file":
		if arg == "" {
			return nil, nil, fmt.Errorf("record file path is empty")
		}
		return NewRecordToFile(arg)
	case "mysql":
		if mcfg == nil {
			return nil, nil, fmt.Errorf("record mysql config is empty")
		}
		return NewRecordToMysql(mcfg)
	}
	return nil, nil, fmt.Errorf("record type unknown: %s", spec)
}

// 格式化输出
func ToFmt(rt *gtw.Record0) string {
	return fmt.Sprintf("[_record_]: %s %s %s%s %d %d %dms rule=%s authz=%s upstream=%s %s",
		rt.TraceID, rt.RemoteIP, rt.Method+" ", rt.ReqURL, rt.StatusCode, rt.RespSize, //
		rt.ServeTime, rt.Rule, rt.Authz, rt.UpstreamAddr, rt.RespBody)
}

// ----------------------------------------------------------------------------

// 异步写出队列, 队列满或者已经关闭时丢弃记录
type recordQueue struct {
	ch   chan gtw.Record0
	done chan struct{}
	save func(*gtw.Record0)
	drop atomic.Int64
	mu   sync.RWMutex
	shut bool
}

func newRecordQueue(size int, save func(*gtw.Record0)) *recordQueue {
	qq := &recordQueue{
		ch:   make(chan gtw.Record0, size),
		done: make(chan struct{}),
		save: save,
	}
	go qq.run()
	return qq
}

func (qq *recordQueue) push(rt *gtw.Record0) {
	qq.mu.RLock()
	defer qq.mu.RUnlock()
	if qq.shut {
		qq.drop.Add(1)
		return
	}
	select {
	case qq.ch <- *rt: // 记录会被复用, 这里需要拷贝
	default:
		qq.drop.Add(1)
	}
}

func (qq *recordQueue) run() {
	defer close(qq.done)
	for rt := range qq.ch {
		qq.save(&rt)
	}
}

// 关闭队列, 等待剩余记录写出
func (qq *recordQueue) Close() {
	qq.mu.Lock()
	if qq.shut {
		qq.mu.Unlock()
		return
	}
	qq.shut = true
	close(qq.ch)
	qq.mu.Unlock()
	<-qq.done
	if drop := qq.drop.Load(); drop > 0 {
		z.Printf("[_record_]: dropped %d records\n", drop)
	}
}
