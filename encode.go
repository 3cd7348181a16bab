package c37118

// Encode is the encoder driver (C9): it serializes a Message into sink,
// computing FRAMESIZE from the payload length and appending the
// CRC-CCITT trailer. Any Sink overflow aborts the call immediately; the
// sink may hold a partial frame on error and should be discarded by the
// caller (spec.md §4.9/§7).
func Encode(msg Message, sink Sink) error {
	payloadOctets, err := msg.Data.payloadOctets()
	if err != nil {
		return err
	}

	frameSize := uint32(frameOverhead) + uint32(payloadOctets)
	if frameSize > MaxFrameSize {
		return ErrBytesExceedFrameSize
	}

	sync, err := buildSyncWord(msg.Version, msg.Data.Kind())
	if err != nil {
		return err
	}

	crc := newChecksum()
	w := newWriter(sink, crc)

	if err := w.U16(sync); err != nil {
		return err
	}
	if err := w.U16(uint16(frameSize)); err != nil {
		return err
	}
	if err := w.U16(msg.IDCode); err != nil {
		return err
	}

	soc, fracsecWord := msg.Time.encode()
	if err := w.U32(soc); err != nil {
		return err
	}
	if err := w.U32(fracsecWord); err != nil {
		return err
	}

	if cmd, ok := msg.Data.Cmd(); ok {
		if err := encodeCmdType(w, cmd); err != nil {
			return err
		}
	} else if err := w.Bytes(msg.Data.Payload()); err != nil {
		return err
	}

	return w.FinalizeChecksum()
}
