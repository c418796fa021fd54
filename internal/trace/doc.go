// Package trace: трассировка CLI и пайплайна разбора.
//
// Tracer передаётся через context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.BeginFile(trace.FromContext(ctx), trace.OpParse, "a.bs", 0)
//	defer span.End("")
//
// Уровни: off, error, phase (команда и проходы по файлам), detail (члены
// модуля), debug (синтаксические ошибки и точки восстановления).
// Вывод: text или ndjson; ring-режим держит последние события в памяти.
//
//	bsharp parse --trace=- --trace-level=detail src/
package trace
