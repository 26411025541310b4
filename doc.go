// Package cltuecho provides an embeddable command-echo listener.
//
// Ground equipment loops uplinked command data back to the ground data
// system. The listener reads that raw byte stream, reconstructs each
// delimited CLTU (Communications Link Transmission Unit), checks its BCH
// codeblocks and appends one outcome record per CLTU to a log file.
//
// # Basic Usage
//
//	cfg := cltuecho.DefaultConfig()
//	cfg.Mode = cltuecho.ModeClient
//	cfg.Addr = "gse.example:5000"
//
//	echo, err := cltuecho.New(cfg, cltuecho.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer echo.Close()
//
//	if err := echo.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until the stream ends, ctx is cancelled or the sink fails.
//
// # Sources
//
// [ModeFile] reads a recorded stream, optionally following it as it grows.
// [ModeClient] dials an echo server; [ModeServer] waits for the echo
// equipment to connect. With Reconnect set, network sessions survive
// connection loss; a frame cut by the loss is discarded.
//
// # Dependency Injection
//
// For testing, any stage of the pipeline can be replaced:
//
//	echo, err := cltuecho.New(cfg,
//	    cltuecho.WithSource(fakeSource),
//	    cltuecho.WithSink(recordingSink),
//	)
//
// # Status
//
// When StatusDir is set, a JSON snapshot of the session ([Status]) is
// written to StatusDir/echo-status.json every StatusInterval and once more
// when Run returns.
package cltuecho
