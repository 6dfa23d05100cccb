package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/flagkit/flagset"
	"github.com/flagkit/flagset/database"
	flagsetmysql "github.com/flagkit/flagset/database/mysql"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type MySQLOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	Name     string
	Charset  string
}

func (m MySQLOptions) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true",
		m.Username, m.Password, m.Host, m.Port, m.Name, m.Charset)
}

// Permission is the demo flag type: classic unix-ish file permissions with
// a combined rw member.
var Permission = flagset.MustBuild("Permission", []flagset.Member{
	flagset.Bits("read", 0x1),
	flagset.Bits("write", 0x2),
	flagset.Bits("exec", 0x4),
	flagset.Bits("rw", 0x3),
})

func init() {
	flagset.Register(Permission)
}

func parseOwner() string {
	if len(os.Args) >= 2 {
		return os.Args[1]
	}
	return "owner_default"
}

func main() {
	m := MySQLOptions{
		Host:     "127.0.0.1",
		Port:     3306,
		Username: "root",
		Password: "",
		Name:     "flagset",
		Charset:  "utf8",
	}

	lgr, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger error: %v", err)
	}

	db, err := sql.Open("mysql", m.DSN())
	if err != nil {
		lgr.Fatal("open mysql error", zap.Error(err))
	}
	defer db.Close()

	store := flagsetmysql.BuildSetStore(db, lgr)
	ctx := context.Background()
	owner := parseOwner()

	granted := Permission.MustMember("read").Or(Permission.MustMember("write"))
	if err := store.SaveSet(ctx, database.EncodeRecord(owner, "workspace", granted)); err != nil {
		lgr.Fatal("save flag set error", zap.Error(err))
	}

	rec, err := store.GetSet(ctx, owner, "workspace")
	if err != nil {
		lgr.Fatal("load flag set error", zap.Error(err))
	}
	loaded, err := database.DecodeRecord(rec, Permission)
	if err != nil {
		lgr.Fatal("decode flag set error", zap.Error(err))
	}

	lgr.Info("flag set round-tripped",
		zap.String("owner", owner),
		zap.String("value", loaded.String()),
		zap.Bool("equal", loaded.Equal(granted)))

	recs, err := store.ListSets(ctx, owner)
	if err != nil {
		lgr.Fatal("list flag sets error", zap.Error(err))
	}
	for _, r := range recs {
		v, err := database.ResolveRecord(r)
		if err != nil {
			lgr.Warn("skip undecodable record", zap.String("name", r.Name), zap.Error(err))
			continue
		}
		fmt.Printf("%s/%s = %s\n", r.Owner, r.Name, v)
	}
}
