// Package log provides the logging abstraction used by the echo listener.
//
// Components depend on the Logger interface only. The zerolog adapter is
// what the command uses; the no-op logger keeps tests quiet.
//
// # Usage
//
//	logger, err := log.NewZerologLogger(os.Stderr, "debug")
//	if err != nil {
//	    return err
//	}
//	logger.Info("session connected", log.String("source", src.String()))
//
// Byte payloads are logged with Hex so frames stay readable:
//
//	logger.Warn("decode fault", log.Uint64("frame", n), log.Hex("raw", raw))
package log
