package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/go-git/go-billy/v6/osfs"

	mee "github.com/amonsch/mee-cli"
	"github.com/amonsch/mee-cli/engine"
	"github.com/amonsch/mee-cli/source"
)

// Handle represents an open query engine
type Handle struct {
	instance *mee.Instance
	engine   *engine.Engine
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
	Columns        []string          `json:"columns"`
	Rows           []json.RawMessage `json:"rows"`
	RecordsRead    int               `json:"records_read"`
	RecordsScanned int               `json:"records_scanned"`
	TimeMs         float64           `json:"time_ms"`
}

//export mee_open
func mee_open(dir *C.char) C.int {
	instance := mee.Open(source.NewStore(osfs.New(C.GoString(dir))))

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   instance.Engine(),
	}

	return C.int(handle)
}

//export mee_close
func mee_close(handle C.int) {
	delete(handles, int(handle))
}

//export mee_execute
func mee_execute(handle C.int, statement *C.char) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	result, err := h.engine.Execute(C.GoString(statement))
	if err != nil {
		return makeErrorResponse(err.Error())
	}

	var resp Response
	if result == nil {
		// Blank statement
		resp = Response{Success: true}
	} else {
		rows := make([]json.RawMessage, 0, len(result.Rows))
		for _, row := range result.Rows {
			data, err := json.Marshal(row)
			if err != nil {
				return makeErrorResponse(err.Error())
			}
			rows = append(rows, data)
		}

		qr := QueryResponse{
			Columns:        result.Columns,
			Rows:           rows,
			RecordsRead:    result.RecordsRead,
			RecordsScanned: result.RecordsScanned,
			TimeMs:         result.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		resp = Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export mee_sources
func mee_sources(handle C.int) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	sources, err := h.instance.Store.Sources()
	if err != nil {
		return makeErrorResponse(err.Error())
	}

	data, _ := json.Marshal(sources)
	jsonData, _ := json.Marshal(Response{
		Success: true,
		Type:    "sources",
		Result:  data,
	})
	return C.CString(string(jsonData))
}

//export mee_free
func mee_free(ptr *C.char) {
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
