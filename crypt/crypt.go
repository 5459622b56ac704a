/*
Package crypt implements the reversible obfuscation applied to Nitro
character data.

The transform XORs each 16-bit little-endian word of the data with the low
half of a 32-bit key driven by a linear-congruential generator. Ciphering
walks the data from the last word to the first, stepping the key before each
word; deciphering walks from the first word to the last, seeding the key from
the first ciphered word itself, and also reports the final key reached. The
two directions use mutually inverse key steps, so deciphering recovers both
the plaintext and the key state without any external input. This is keyed
obfuscation, not cryptography.
*/
package crypt

import (
	"encoding/binary"
	"errors"
)

const (
	increment = 24691
	cipherMul = 4005161829
	plainMul  = 1103515245
)

var errOddLength = errors.New("crypt: data length is not a multiple of two")

// Cipher obfuscates data under the given key. The data length must be even.
func Cipher(data []byte, key uint32) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, errOddLength
	}

	out := make([]byte, len(data))
	for i := len(data) - 2; i >= 0; i -= 2 {
		key = (key - increment) * cipherMul
		v := binary.LittleEndian.Uint16(data[i:]) ^ uint16(key)
		binary.LittleEndian.PutUint16(out[i:], v)
	}
	return out, nil
}

// Decipher reverses Cipher, seeding the key from the first word of the
// ciphered data. It returns the plaintext and the final key value reached;
// ciphering the plaintext again under that key reproduces data exactly.
func Decipher(data []byte) ([]byte, uint32, error) {
	if len(data)%2 != 0 {
		return nil, 0, errOddLength
	}

	var key uint32
	if len(data) >= 2 {
		key = uint32(binary.LittleEndian.Uint16(data))
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += 2 {
		v := binary.LittleEndian.Uint16(data[i:]) ^ uint16(key)
		binary.LittleEndian.PutUint16(out[i:], v)
		key = key*plainMul + increment
	}
	return out, key, nil
}
