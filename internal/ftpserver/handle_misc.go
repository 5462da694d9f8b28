package ftpserver

import "strings"

// handleOPTS answers the one OPTS sub-command real clients actually probe
// for (UTF8 ON) and rejects everything else, including other UTF8
// sub-arguments like "UTF8 OFF"; HASH/MLST and the other option families
// the teacher supports aren't part of this protocol subset.
func (sess *Session) handleOPTS(param string) error {
	if param == "UTF8 ON" {
		sess.writeMessage(StatusOK, "UTF8 mode enabled")

		return nil
	}

	sess.writeMessage(StatusSyntaxErrorNotRecognised, "unsupported option")

	return nil
}

func (sess *Session) handleNOOP(_ string) error {
	sess.writeMessage(StatusOK, "OK")

	return nil
}

// handleTYPE supports the two modes spec §4.E names; both are streamed
// byte-for-byte (see transfer_test.go round-trip coverage), TYPE only picks
// which reply text a client sees. Spec §4.E accepts only the leading
// letter, case-insensitively (A|a|I|i), so the argument is normalized to
// upper case before matching.
func (sess *Session) handleTYPE(param string) error {
	switch strings.ToUpper(param) {
	case "I":
		sess.setTransferType(TransferTypeImage)
		sess.writeMessage(StatusOK, "Type set to Image")
	case "A":
		sess.setTransferType(TransferTypeASCII)
		sess.writeMessage(StatusOK, "Type set to ASCII")
	default:
		sess.writeMessage(StatusSyntaxErrorNotRecognised, "unsupported type")
	}

	return nil
}

func (sess *Session) handleQUIT(_ string) error {
	sess.writeMessage(StatusClosingControl, "Goodbye")

	return nil
}
