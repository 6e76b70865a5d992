/*
Package stdlog defines the minimal logging interface used throughout
viaduct, satisfied by *log.Logger and by nearly every logging package.
*/
package stdlog

// StdLog is the logging interface accepted anywhere viaduct logs.
type StdLog interface {
	// Print logs a message; arguments are handled as fmt.Print does.
	Print(v ...interface{})

	// Println logs a message; arguments are handled as fmt.Println does.
	Println(v ...interface{})

	// Printf logs a message; arguments are handled as fmt.Printf does.
	Printf(format string, v ...interface{})
}
