// Package server runs a local emulator of the log service's project and
// logstore API, for development against logctl and for integration tests.
//
// Projects are addressed by host: GET / with Host <project>.<domain> returns
// the project document, and the bare domain lists projects. Errors use the
// service's {"errorCode","errorMessage"} document and every response carries
// an x-log-requestid header.
//
// InjectFault queues canned failures (for example ServerBusy) so retry
// behavior can be exercised end to end:
//
//	srv := server.New(server.Config{Port: 0}, logger.NewDefault("emulator"))
//	srv.InjectFault(server.ServerBusy(), 2)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(ctx)
package server
