package utilities

import (
	"log"
	"os"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger

	debugEnabled bool
)

// InitLogger inicializa os loggers. Mensagens de debug só são emitidas
// quando LOG_DEBUG=true no ambiente.
func InitLogger() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	InfoLogger = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLogger = log.New(os.Stdout, "\033[36m[DEBUG]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)

	debugEnabled = os.Getenv("LOG_DEBUG") == "true"
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError registra erros com o contexto em que ocorreram
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	DebugLogger.Printf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
