package c37118

// Decode is the decoder driver (C8): it turns a Source already framing
// exactly one complete message into a Message, or the first error
// encountered. No partial Message is ever returned (spec.md §4.8/§7).
func Decode(src Source) (Message, error) {
	buf := src.Bytes()
	l := len(buf)

	if l > MaxFrameSize {
		return Message{}, ErrBytesExceedFrameSize
	}
	if l < minFrameSize {
		return Message{}, ErrInvalidFrameSize
	}

	crc := newChecksum()
	r := newReaderBytes(buf[:l-2], crc)

	sync, err := r.U16()
	if err != nil {
		return Message{}, err
	}
	version, kind, err := dissectSyncWord(sync)
	if err != nil {
		return Message{}, err
	}

	frameSize, err := r.U16()
	if err != nil {
		return Message{}, err
	}
	if int(frameSize) != l {
		return Message{}, ErrInvalidFrameSize
	}

	idcode, err := r.U16()
	if err != nil {
		return Message{}, err
	}
	soc, err := r.U32()
	if err != nil {
		return Message{}, err
	}
	fracsecWord, err := r.U32()
	if err != nil {
		return Message{}, err
	}

	var data DataType
	switch kind {
	case KindCmd:
		cmd, err := decodeCmdType(r)
		if err != nil {
			return Message{}, err
		}
		data = NewCmdPayload(cmd)
	default:
		payloadLen := int(frameSize) - frameOverhead
		if payloadLen < 0 {
			return Message{}, ErrInvalidFrameSize
		}
		payload, err := r.Bytes(payloadLen)
		if err != nil {
			return Message{}, err
		}
		switch kind {
		case KindData:
			data = NewDataPayload(payload)
		case KindHeader:
			data = NewHeaderPayload(payload)
		case KindCfg1:
			data = NewCfg1Payload(payload)
		case KindCfg2:
			data = NewCfg2Payload(payload)
		case KindCfg3:
			data = NewCfg3Payload(payload)
		}
	}

	t, err := decodeTime(soc, fracsecWord)
	if err != nil {
		return Message{}, err
	}

	// Read the trailing CHK directly from the source, bypassing the
	// checksum engine (spec.md §4.3/§4.8 step 5). Integrity is checked
	// last, after every semantic field has been validated (spec.md §7).
	tail := newReaderBytes(buf[l-2:], nil)
	chk, err := tail.U16NoChecksum()
	if err != nil {
		return Message{}, err
	}
	if chk != crc.Finalize() {
		return Message{}, ErrInvalidChecksum
	}

	return Message{
		Version: version,
		IDCode:  idcode,
		Time:    t,
		Data:    data,
	}, nil
}
