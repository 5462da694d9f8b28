package ftpserver

import (
	"fmt"
	"os"
	"path"
)

func (sess *Session) handlePWD(_ string) error {
	sess.writeMessage(StatusPathCreated, fmt.Sprintf("%q is the current directory", sess.dir()))

	return nil
}

func (sess *Session) handleCWD(param string) error {
	target, err := resolvePath(sess.dir(), param)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, err.Error())

		return nil
	}

	return sess.changeDir(target)
}

// handleCDUP moves up one level from current_dir. It computes the parent
// directly rather than routing ".." through resolvePath: that function's
// blanket rejection of any ".." substring exists to stop a client-supplied
// argument from escaping the root (spec §8), but here the ".." is ours, not
// the client's, and path.Dir already clamps at "/".
func (sess *Session) handleCDUP(_ string) error {
	return sess.changeDir(path.Dir(sess.dir()))
}

func (sess *Session) changeDir(target string) error {
	info, err := sess.server.driver.FS().Stat(target)
	if err != nil || !info.IsDir() {
		sess.writeMessage(StatusActionNotTakenNoFile, fmt.Sprintf("can't change directory to %s", target))

		return nil
	}

	sess.setDir(target)
	sess.writeMessage(StatusFileOK, fmt.Sprintf("directory changed to %s", target))

	return nil
}

func (sess *Session) handleLIST(param string) error {
	return sess.sendListing(param, listingEntry)
}

func (sess *Session) handleNLST(param string) error {
	return sess.sendListing(param, func(fi os.FileInfo) string { return fi.Name() })
}

func (sess *Session) sendListing(param string, render func(os.FileInfo) string) error {
	dir, err := resolvePath(sess.dir(), param)
	if err != nil {
		sess.writeMessage(StatusActionNotTakenNoFile, err.Error())

		return nil
	}

	entries, err := readDir(sess.server.driver.FS(), dir)
	if err != nil {
		sess.writeMessage(StatusActionNotTaken, fmt.Sprintf("could not list %s: %v", dir, err))

		return nil
	}

	conn, err := sess.openDataChannel()
	if err != nil {
		sess.writeMessage(StatusActionNotTaken, err.Error())

		return nil
	}

	sess.writeMessage(StatusFileStatusOK, "opening data connection for directory listing")

	for _, entry := range entries {
		if _, err := fmt.Fprintf(conn, "%s\r\n", render(entry)); err != nil {
			_ = conn.Close()
			sess.writeMessage(StatusTransferAborted, fmt.Sprintf("listing transfer failed: %v", err))

			return nil
		}
	}

	_ = conn.Close()
	sess.writeMessage(StatusClosingDataConn, "directory send ok")

	return nil
}
