package ftpserver

import "fmt"

// handleUSER implements spec §4.B: USER always succeeds at the protocol
// level and just records the name, advancing access to NotLoggedIn. The
// actual check happens on PASS.
func (sess *Session) handleUSER(param string) error {
	sess.setUser(param)
	sess.setAccessLevel(AccessNotLoggedIn)
	sess.writeMessage(StatusUserOK, "User name ok, need password")

	return nil
}

// handlePASS authenticates against the configured Driver. A failure leaves
// the session at AccessNotLoggedIn rather than disconnecting it: spec §4.B
// allows retrying USER/PASS.
func (sess *Session) handlePASS(param string) error {
	level, err := sess.server.driver.Authenticate(sess.getUser(), param)
	if err != nil {
		sess.setAccessLevel(AccessNotLoggedIn)
		sess.writeMessage(StatusNotLoggedIn, fmt.Sprintf("authentication failed: %v", err))

		return nil
	}

	sess.setAccessLevel(level)
	sess.writeMessage(StatusUserLoggedIn, "Password ok, continue")

	return nil
}
