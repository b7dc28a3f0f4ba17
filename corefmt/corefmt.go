// Package corefmt 處理 PRNG 狀態與回放資料的文字/二進位傳輸格式。
package corefmt

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/wudsh1/playworks-sub001/errs"
)

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode base64url failed")
	}
	return b, nil
}

func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode hex failed")
	}
	return b, nil
}

// RandomID 回傳 n bytes 的隨機 hex 字串，用於 session id。
func RandomID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return EncodeHex(b)
}

// EncodeBlobFrame 編碼成 uvarint(len(payload)) || payload。
func EncodeBlobFrame(payload []byte) []byte {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(payload)))

	out := make([]byte, 0, n+len(payload))
	out = append(out, hdr[:n]...)
	out = append(out, payload...)
	return out
}

// DecodeBlobFrame 解開 EncodeBlobFrame 的輸出；長度不符回傳錯誤。
func DecodeBlobFrame(frame []byte) ([]byte, error) {
	n, size := binary.Uvarint(frame)
	if size <= 0 {
		return nil, errs.NewWarn("decode blob frame failed: invalid varint length")
	}
	if uint64(len(frame)-size) < n {
		return nil, errs.NewWarn("decode blob frame failed: truncated payload")
	}
	payload := frame[size : size+int(n)]
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// ReadBlobFrame 從 r 讀一個 frame；maxBytes > 0 時限制長度。
func ReadBlobFrame(r io.Reader, maxBytes uint64) ([]byte, error) {
	br := bufio.NewReader(r)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errs.Wrap(err, "read blob frame header failed")
	}
	if maxBytes > 0 && ln > maxBytes {
		return nil, errs.NewWarn("read blob frame failed: payload exceeds maxBytes")
	}
	buf := make([]byte, ln)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, errs.Wrap(err, "read blob frame payload failed")
	}
	return buf, nil
}

var (
	zOnce sync.Once
	zEnc  *zstd.Encoder
	zDec  *zstd.Decoder
	zErr  error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zOnce.Do(func() {
		zEnc, zErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zErr != nil {
			return
		}
		zDec, zErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(8<<20))
	})
	return zEnc, zDec, zErr
}

// Pack 以 zstd 壓縮後再做 base64url，適合放進 URL 或 JSON 字串。
func Pack(raw []byte) (string, error) {
	enc, _, err := zstdCodec()
	if err != nil {
		return "", errs.Wrap(err, "init zstd failed")
	}
	return EncodeBase64URL(enc.EncodeAll(raw, nil)), nil
}

// Unpack 是 Pack 的反向操作。
func Unpack(token string) ([]byte, error) {
	_, dec, err := zstdCodec()
	if err != nil {
		return nil, errs.Wrap(err, "init zstd failed")
	}
	compressed, err := DecodeBase64URL(token)
	if err != nil {
		return nil, err
	}
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "zstd decode failed")
	}
	return raw, nil
}

// PackFrame 把多段資料各自加上長度前綴後串接。
func PackFrame(parts ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(EncodeBlobFrame(p))
	}
	return buf.Bytes()
}

// UnpackFrame 是 PackFrame 的反向操作。
func UnpackFrame(data []byte) ([][]byte, error) {
	var out [][]byte
	for len(data) > 0 {
		n, size := binary.Uvarint(data)
		if size <= 0 || uint64(len(data)-size) < n {
			return nil, errs.NewWarn("unpack frame failed: malformed frame")
		}
		part, err := DecodeBlobFrame(data[:size+int(n)])
		if err != nil {
			return nil, err
		}
		out = append(out, part)
		data = data[size+int(n):]
	}
	return out, nil
}
