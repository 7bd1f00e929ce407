// Package hostcall defines the closed set of WASI hostcalls whose latency is recorded.
//
// The registry is a static, ordered table. Every Op is an index into it, so the set
// of names is fixed at compile time and iteration order is stable.
package hostcall

import (
	"fmt"
)

//go:generate enumer -type=Category -trimprefix=Category -transform=snake -json -text -yaml

// Category groups hostcalls by the resource they touch.
type Category int

const (
	// CategoryArgs covers argument and environment access.
	CategoryArgs Category = iota

	// CategoryFD covers file descriptor operations.
	CategoryFD

	// CategoryPath covers path-relative filesystem operations.
	CategoryPath

	// CategoryClock covers clock reads.
	CategoryClock

	// CategoryPoll covers event polling.
	CategoryPoll

	// CategorySock covers sockets.
	CategorySock

	// CategoryProc covers process control.
	CategoryProc

	// CategoryRandom covers random data.
	CategoryRandom

	// CategorySched covers scheduler yields.
	CategorySched
)

// Op identifies a registered hostcall.
type Op uint8

type entry struct {
	name     string
	category Category
}

// table is the registry. Order matters: it is the iteration order of every store
// and therefore the line order of every report.
var table = [...]entry{
	{"args_get", CategoryArgs},
	{"args_sizes_get", CategoryArgs},
	{"proc_exit", CategoryProc},
	{"environ_sizes_get", CategoryArgs},
	{"environ_get", CategoryArgs},
	{"fd_prestat_get", CategoryFD},
	{"fd_write", CategoryFD},
	{"fd_read", CategoryFD},
	{"fd_close", CategoryFD},
	{"fd_seek", CategoryFD},
	{"clock_time_get", CategoryClock},
	{"clock_res_get", CategoryClock},
	{"fd_advise", CategoryFD},
	{"fd_allocate", CategoryFD},
	{"fd_datasync", CategoryFD},
	{"fd_fdstat_get", CategoryFD},
	{"fd_fdstat_set_flags", CategoryFD},
	{"fd_filestat_get", CategoryFD},
	{"fd_filestat_set_size", CategoryFD},
	{"fd_filestat_set_times", CategoryFD},
	{"fd_pread", CategoryFD},
	{"fd_prestat_dir_name", CategoryFD},
	{"fd_pwrite", CategoryFD},
	{"fd_readdir", CategoryFD},
	{"fd_renumber", CategoryFD},
	{"fd_sync", CategoryFD},
	{"fd_tell", CategoryFD},
	{"path_create_directory", CategoryPath},
	{"path_filestat_get", CategoryPath},
	{"path_filestat_set_times", CategoryPath},
	{"path_link", CategoryPath},
	{"path_open", CategoryPath},
	{"path_readlink", CategoryPath},
	{"path_remove_directory", CategoryPath},
	{"path_rename", CategoryPath},
	{"path_symlink", CategoryPath},
	{"path_unlink_file", CategoryPath},
	{"poll_oneoff", CategoryPoll},
	{"proc_raise", CategoryProc},
	{"random_get", CategoryRandom},
	{"sched_yield", CategorySched},
	{"sock_recv", CategorySock},
	{"sock_send", CategorySock},
	{"sock_shutdown", CategorySock},
	{"socket", CategorySock},
	{"sock_connect", CategorySock},
	{"fd_fdstat_set_rights", CategoryFD},
	{"sock_accept", CategorySock},
}

// NumOps is the size of the registry.
const NumOps = len(table)

var byName = func() map[string]Op {
	m := make(map[string]Op, NumOps)

	for i, e := range table {
		m[e.name] = Op(i)
	}

	return m
}()

// Lookup resolves a hostcall name. Names outside the registry return an
// *UnknownOperationError that matches ErrUnknownOperation.
func Lookup(name string) (Op, error) {
	op, ok := byName[name]
	if !ok {
		return 0, &UnknownOperationError{Name: name}
	}

	return op, nil
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) Op {
	op, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return op
}

// Ops returns every registered op in registry order.
func Ops() []Op {
	ops := make([]Op, NumOps)
	for i := range ops {
		ops[i] = Op(i)
	}

	return ops
}

// Names returns every registered name in registry order.
func Names() []string {
	names := make([]string, NumOps)
	for i, e := range table {
		names[i] = e.name
	}

	return names
}

// Valid reports whether op indexes the registry.
func (op Op) Valid() bool {
	return int(op) < NumOps
}

// String returns the hostcall name.
func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", op)
	}

	return table[op].name
}

// Category returns the group the hostcall belongs to.
func (op Op) Category() Category {
	if !op.Valid() {
		return -1
	}

	return table[op].category
}
