package ftpserver

// Reply codes emitted on the control channel. Only the subset the protocol
// engine actually uses is defined; see spec §6 for the condition each one is
// tied to.
const (
	StatusFileStatusOK             = 150 // about to open a data connection
	StatusOK                       = 200 // generic command-ok (OPTS, TYPE, PORT)
	StatusServiceReady             = 220 // sent right after accept
	StatusClosingControl           = 221 // QUIT
	StatusClosingDataConn          = 226 // transfer completed cleanly
	StatusEnteringPASV             = 227 // PASV succeeded
	StatusUserLoggedIn             = 230 // PASS accepted
	StatusFileOK                   = 250 // CWD/CDUP ok
	StatusPathCreated              = 257 // PWD
	StatusUserOK                   = 331 // USER accepted, need PASS
	StatusCantOpenDataConn         = 425 // not emitted: a missing or failed data channel gets 451
	StatusTransferAborted          = 426 // data connection failed mid-transfer
	StatusActionNotTaken           = 451 // local error, action aborted
	StatusSyntaxErrorNotRecognised = 501 // bad/missing argument
	StatusCommandNotImplemented    = 502 // unrecognised verb
	StatusNotLoggedIn              = 530 // not authenticated / bad credentials
	StatusActionNotTakenNoFile     = 550 // file unavailable / permission denied
)
