// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser). Inputs must never panic, hang or lose bytes:
// token text and tree text reproduce the input exactly.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
