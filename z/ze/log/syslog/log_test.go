// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package logsyslog_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	logsyslog "github.com/suisrc/zcas/z/ze/log/syslog"
)

// go test -v z/ze/log/syslog/log_test.go -run Test_syslog_udp

func Test_syslog_udp(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	logger := logsyslog.NewLoggerSyslog(conn.LocalAddr().String(), "udp", 0, false)
	logger.Output(1, func(b []byte) []byte { return fmt.Appendln(b, "[_kwcas__]: hello syslog") })

	buf := make([]byte, 2048)
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	msg := string(buf[:n])
	assert.Contains(t, msg, "[_kwcas__]: hello syslog")
	assert.Contains(t, msg, "<134>1 ") // local0.info, rfc5424
}
