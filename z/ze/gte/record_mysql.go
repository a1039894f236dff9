// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gte

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 数据库配置
type MysqlConfig struct {
	DataSource   string `json:"dsn" env:"DSN"` // user:pass@tcp(host:port)/dbname?params
	Table        string `json:"table" env:"TABLE"`
	MaxOpenConns int    `json:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `json:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	MaxLifetime  int    `json:"max_lifetime" env:"MAX_LIFETIME"` // 单位秒
}

const recordInsertSQL = "INSERT INTO %s (trace_id, remote_ip, method, host, url, rule, authz, upstream," +
	" status, size, error, start_time, serve_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

// 连接数据库, 返回的错误中不包含密码
func ConnectMysql(cfg *MysqlConfig) (*sql.DB, error) {
	if cfg.DataSource == "" {
		return nil, errors.New("database dsn is empty")
	}
	dsn, err := mysql.ParseDSN(cfg.DataSource)
	if err != nil {
		return nil, fmt.Errorf("database dsn error, %w", err)
	}
	conn, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("database connect error [***@%s/%s], %w", dsn.Addr, dsn.DBName, err)
	}
	cds := sql.OpenDB(conn)
	if cfg.MaxOpenConns > 0 {
		cds.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		cds.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		cds.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}
	return cds, nil
}

// 访问记录写入数据库, 表名默认 cas_record
func NewRecordToMysql(cfg *MysqlConfig) (gtw.RecordPool, z.Closed, error) {
	cds, err := ConnectMysql(cfg)
	if err != nil {
		return nil, nil, err
	}
	table := cfg.Table
	if table == "" {
		table = "cas_record"
	}
	queue := newRecordQueue(1024, (&RecordMysql{DB: cds, Query: fmt.Sprintf(recordInsertSQL, table)}).Save)
	closed := func() {
		queue.Close()
		cds.Close()
	}
	return gtw.NewRecordPool(queue.push), closed, nil
}

type RecordMysql struct {
	DB    *sql.DB
	Query string
}

func (aa *RecordMysql) Save(rt *gtw.Record0) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := aa.DB.ExecContext(ctx, aa.Query, rt.TraceID, rt.RemoteIP, rt.Method, rt.ReqHost, rt.ReqURL, //
		rt.Rule, rt.Authz, rt.UpstreamAddr, rt.StatusCode, rt.RespSize, rt.RespBody, //
		time.UnixMilli(rt.StartTime), rt.ServeTime)
	if err != nil {
		z.Printf("[_record_]: write mysql, %v\n", err)
	}
}
