// Package fuzztests houses Go fuzz harnesses that run raw bytes through the
// whole check pipeline (decode -> FileSet -> dialect detection -> validators).
// Its goal is to guard against panics, hangs and nondeterministic output on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через все три валидатора.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/dialect, internal/check, internal/diag.

package fuzztests
