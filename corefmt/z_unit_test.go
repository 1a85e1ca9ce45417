package corefmt

import (
	"bufio"
	"bytes"
	"io"
	"testing"
)

// TestBase64_Roundtrip 驗證 base64 編解碼
func TestBase64_Roundtrip(t *testing.T) {
	payload := []byte{0x00, 0xFF, 0x10, 0x7E, 0x01}

	s := EncodeBase64(payload)
	got, err := DecodeBase64(s)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("roundtrip mismatch: %v != %v", got, payload)
	}

	if _, err := DecodeBase64("!!not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

// TestBlobFrame_Roundtrip 驗證 frame 編解碼
// 檢查項目: Encode/Decode 與 Write/Read 兩組 API 互通
func TestBlobFrame_Roundtrip(t *testing.T) {
	payload := []byte("round record payload")

	frame := EncodeBlobFrame(payload)
	got, err := DecodeBlobFrame(frame)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("roundtrip mismatch: %q != %q", got, payload)
	}

	// Encode 產物可被串流端讀回
	var buf bytes.Buffer
	if err := WriteBlobFrame(&buf, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), frame) {
		t.Fatal("write and encode should produce identical frames")
	}
	got, err = ReadBlobFrame(bufio.NewReader(&buf), 0)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stream roundtrip mismatch: %q != %q", got, payload)
	}
}

// TestBlobFrame_Malformed 驗證壞 frame 防護
func TestBlobFrame_Malformed(t *testing.T) {
	if _, err := DecodeBlobFrame(nil); err == nil {
		t.Error("expected error for empty frame")
	}
	// 宣告 100 bytes 但只有 1 byte payload
	if _, err := DecodeBlobFrame([]byte{100, 0x01}); err == nil {
		t.Error("expected error for truncated payload")
	}
}

// TestReadBlobFrame_Limits 驗證串流讀取的邊界行為
// 檢查項目: 乾淨結尾回傳 io.EOF，超過 maxBytes 報錯
func TestReadBlobFrame_Limits(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBlobFrame(&buf, []byte("abc")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	r := bufio.NewReader(&buf)
	if _, err := ReadBlobFrame(r, 0); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if _, err := ReadBlobFrame(r, 0); err != io.EOF {
		t.Fatalf("expected io.EOF at clean end, got %v", err)
	}

	buf.Reset()
	if err := WriteBlobFrame(&buf, make([]byte, 64)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := ReadBlobFrame(bufio.NewReader(&buf), 8); err == nil {
		t.Fatal("expected error when frame exceeds maxBytes")
	}
}
