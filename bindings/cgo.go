package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/nickyhof/TemporalDB"
	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/db"
	"github.com/nickyhof/TemporalDB/ps"
)

// Handle represents an open database instance
type Handle struct {
	instance *TemporalDB.Instance
	engine   *db.Engine
}

// Global handle storage (simplified - in production use a map with mutex)
var handles = make(map[int]*Handle)
var nextHandle = 1

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns         []string   `json:"columns"`
	Data            [][]string `json:"data"`
	RecordsRead     int        `json:"records_read"`
	ExecutionTimeMs float64    `json:"execution_time_ms"`
	ExecutionOps    int        `json:"execution_ops"`
}

type CommitResponse struct {
	TablesCreated    int     `json:"tables_created,omitempty"`
	TablesDeleted    int     `json:"tables_deleted,omitempty"`
	ViewsCreated     int     `json:"views_created,omitempty"`
	ViewsDeleted     int     `json:"views_deleted,omitempty"`
	RevisionsWritten int     `json:"revisions_written,omitempty"`
	RevisionsClosed  int     `json:"revisions_closed,omitempty"`
	Staged           int     `json:"staged,omitempty"`
	ExecutionTimeMs  float64 `json:"execution_time_ms"`
	ExecutionOps     int     `json:"execution_ops"`
}

//export temporaldb_open_memory
func temporaldb_open_memory() C.int {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		return -1
	}

	instance := TemporalDB.Open(&persistence)
	engine := instance.Engine(core.Identity{
		Name:  "TemporalDB Python",
		Email: "python@temporaldb.local",
	})

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   engine,
	}

	return C.int(handle)
}

//export temporaldb_open_file
func temporaldb_open_file(path *C.char) C.int {
	goPath := C.GoString(path)

	persistence, err := ps.NewFilePersistence(goPath, nil)
	if err != nil {
		return -1
	}

	instance := TemporalDB.Open(&persistence)
	engine := instance.Engine(core.Identity{
		Name:  "TemporalDB Python",
		Email: "python@temporaldb.local",
	})

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   engine,
	}

	return C.int(handle)
}

//export temporaldb_close
func temporaldb_close(handle C.int) {
	delete(handles, int(handle))
}

//export temporaldb_execute
func temporaldb_execute(handle C.int, query *C.char) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	goQuery := C.GoString(query)
	result, err := h.engine.Execute(goQuery)

	if err != nil {
		return makeErrorResponse(err.Error())
	}

	var resp Response

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:         r.Columns,
			Data:            r.Data,
			RecordsRead:     r.RecordsRead,
			ExecutionTimeMs: r.ExecutionTimeSec * 1000,
			ExecutionOps:    r.ExecutionOps,
		}
		data, _ := json.Marshal(qr)
		resp = Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			TablesCreated:    r.TablesCreated,
			TablesDeleted:    r.TablesDeleted,
			ViewsCreated:     r.ViewsCreated,
			ViewsDeleted:     r.ViewsDeleted,
			RevisionsWritten: r.RevisionsWritten,
			RevisionsClosed:  r.RevisionsClosed,
			Staged:           r.Staged,
			ExecutionTimeMs:  r.ExecutionTimeSec * 1000,
			ExecutionOps:     r.ExecutionOps,
		}
		data, _ := json.Marshal(cr)
		resp = Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		resp = Response{
			Success: true,
			Type:    "unknown",
		}
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export temporaldb_free
func temporaldb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func makeErrorResponse(msg string) *C.char {
	resp := Response{
		Success: false,
		Error:   msg,
	}
	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

func main() {}
