package entity

import "strconv"

// PasswordEncoding documents Record.Password for the run manifest.
const PasswordEncoding = "len:value joined by '|' in order ibge,tom,nomeTom,nomeIbge,uf"

// Password serialises the record fields in a fixed order, each one prefixed
// with its byte length. The length prefix keeps the encoding injective:
// ("AB","C") and ("A","BC") produce different bytes.
func (record Record) Password() []byte {
	fields := [...]string{record.ID, record.Code, record.Name, record.AltName, record.Group}

	size := 0
	for _, f := range fields {
		size += len(f) + 8
	}

	buf := make([]byte, 0, size)
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, '|')
		}
		buf = strconv.AppendInt(buf, int64(len(f)), 10)
		buf = append(buf, ':')
		buf = append(buf, f...)
	}

	return buf
}
