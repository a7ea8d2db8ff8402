package main

// RecordHeader is the varint-encoded prologue of a record: its own byte
// length followed by one serial-type varint per column.
type RecordHeader struct {
	HeaderSize  uint64
	SerialTypes []uint64
}

// Record is a fully decoded cell payload: the header plus one Value per
// column, in declaration order.
type Record struct {
	Header RecordHeader
	Values []Value
}

// decodeRecord parses a record out of a contiguous cell payload.
//
// Invariant enforced: the bytes consumed by the serial-type list exactly
// equal HeaderSize minus the varint's own encoded length, and the total
// bytes consumed (header + values) never exceeds len(payload).
func decodeRecord(payload []byte) (*Record, error) {
	headerSize, hLen, err := decodeVarint(payload)
	if err != nil {
		return nil, wrapErr("decode_record", ErrMalformedRecord, map[string]interface{}{"stage": "header_size", "error": err.Error()})
	}
	if headerSize < uint64(hLen) || int(headerSize) > len(payload) {
		return nil, wrapErr("decode_record", ErrMalformedRecord, map[string]interface{}{
			"reason": "header_size out of range", "header_size": headerSize, "payload_len": len(payload),
		})
	}

	headerEnd := int(headerSize)
	offset := hLen
	var serialTypes []uint64
	for offset < headerEnd {
		st, n, err := decodeVarint(payload[offset:])
		if err != nil {
			return nil, wrapErr("decode_record", ErrMalformedRecord, map[string]interface{}{"stage": "serial_type", "error": err.Error()})
		}
		serialTypes = append(serialTypes, st)
		offset += n
	}
	if offset != headerEnd {
		return nil, wrapErr("decode_record", ErrMalformedRecord, map[string]interface{}{
			"reason": "serial types overran header_size", "offset": offset, "header_end": headerEnd,
		})
	}

	values := make([]Value, len(serialTypes))
	for i, st := range serialTypes {
		size, ok := serialTypeContentSize(st)
		if !ok {
			return nil, ctxErr("decode_record", ErrUnknownSerialType, "serial_type", st)
		}
		if offset+size > len(payload) {
			return nil, wrapErr("decode_record", ErrMalformedRecord, map[string]interface{}{
				"reason": "value overruns payload", "need": offset + size, "have": len(payload),
			})
		}
		val, err := decodeSerialValue(st, payload[offset:offset+size])
		if err != nil {
			return nil, err
		}
		values[i] = val
		offset += size
	}

	return &Record{
		Header: RecordHeader{HeaderSize: headerSize, SerialTypes: serialTypes},
		Values: values,
	}, nil
}
