package ftpserver

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// minBlockSize is the buffer size used to copy between the data channel
// and the filesystem (spec §4.E: transfers stream in blocks of at least
// 512 bytes rather than one byte at a time).
const minBlockSize = 32 * 1024

func (sess *Session) handleRETR(param string) error {
	target, err := resolvePath(sess.dir(), param)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, err.Error())

		return nil
	}

	file, err := sess.server.driver.FS().Open(target)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, fmt.Sprintf("could not open %s: %v", target, err))

		return nil
	}

	defer func() { _ = file.Close() }()

	conn, err := sess.openDataChannel()
	if err != nil {
		sess.writeMessage(StatusActionNotTaken, err.Error())

		return nil
	}

	sess.writeMessage(StatusFileStatusOK, "opening data connection for "+target)

	return sess.streamTransfer(conn, file, true)
}

// handleSTOR implements the write side; spec §4.C gates it on CanStore
// (AccessReadOnly sessions may RETR but not STOR). It always truncates the
// destination: REST/append support is out of scope. Spec §3/§6 assign 550
// to this rejection, not 530: the session is already logged in, it just
// lacks write privilege, the same code used for any other permission
// denial.
func (sess *Session) handleSTOR(param string) error {
	if !sess.accessLevel().CanStore() {
		sess.writeMessage(StatusActionNotTakenNoFile, "write access not permitted for this user")

		return nil
	}

	target, err := resolvePath(sess.dir(), param)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, err.Error())

		return nil
	}

	file, err := sess.server.driver.FS().OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, fmt.Sprintf("could not create %s: %v", target, err))

		return nil
	}

	defer func() { _ = file.Close() }()

	conn, err := sess.openDataChannel()
	if err != nil {
		sess.writeMessage(StatusActionNotTaken, err.Error())

		return nil
	}

	sess.writeMessage(StatusFileStatusOK, "opening data connection for "+target)

	return sess.streamTransfer(conn, file, false)
}

// streamTransfer copies between the data connection and the already-open
// file, then reports the RFC closing codes on the control channel: the
// data connection's own close is what tells the peer the transfer ended,
// independent of this reply (spec §4.E, §8 byte-identity invariant).
func (sess *Session) streamTransfer(conn io.ReadWriteCloser, file afero.File, download bool) error {
	defer func() { _ = conn.Close() }()

	buf := make([]byte, minBlockSize)

	var err error
	if download {
		_, err = io.CopyBuffer(conn, file, buf)
	} else {
		_, err = io.CopyBuffer(file, conn, buf)
	}

	if err != nil {
		sess.writeMessage(StatusTransferAborted, fmt.Sprintf("transfer failed: %v", err))

		return nil
	}

	sess.writeMessage(StatusClosingDataConn, "transfer complete")

	return nil
}
