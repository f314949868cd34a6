// Package http provides JSON response helpers and the read-only inspector
// for a container.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)                       // 200 {"data": ...}
//	res.Error(http.StatusBadRequest, "bad") // {"message": "bad"}
//	res.NotFound()                          // 404 {"message": "Not found."}
//
// # Inspector
//
//	in := &gohttp.Inspector{Container: c}
//	in.Mount(router, "/di")
//
//	// GET /di/counts          {"data": {"Car": 2, "Engine": 1}}
//	// GET /di/entries         {"data": ["Car", "Engine"]}
//	// GET /di/entries/Car     {"data": {"name": "Car", "memoized": true, "count": 2}}
package http
