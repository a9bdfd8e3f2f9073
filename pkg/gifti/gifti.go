// Package gifti reads and writes one-dimensional per-vertex scalar textures
// in GIFTI XML containers, the format the surface tooling exchanges
// coordinate textures in. Only the functional subset the registration
// pipeline needs is implemented: a single FLOAT32 data array per file, in
// ASCII, Base64Binary or GZipBase64Binary encoding.
package gifti

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Encoding selects how a written data array stores its values.
type Encoding string

const (
	ASCII            Encoding = "ASCII"
	Base64Binary     Encoding = "Base64Binary"
	GZipBase64Binary Encoding = "GZipBase64Binary"
)

// giftiFile mirrors the container layout for (un)marshaling.
type giftiFile struct {
	XMLName            xml.Name    `xml:"GIFTI"`
	Version            string      `xml:"Version,attr"`
	NumberOfDataArrays int         `xml:"NumberOfDataArrays,attr"`
	DataArrays         []dataArray `xml:"DataArray"`
}

type dataArray struct {
	Intent             string `xml:"Intent,attr"`
	DataType           string `xml:"DataType,attr"`
	ArrayIndexingOrder string `xml:"ArrayIndexingOrder,attr"`
	Dimensionality     int    `xml:"Dimensionality,attr"`
	Dim0               int    `xml:"Dim0,attr"`
	Encoding           string `xml:"Encoding,attr"`
	Endian             string `xml:"Endian,attr"`
	Data               string `xml:"Data"`
}

// Read loads the first data array of a GIFTI texture file as a dense float
// slice, one value per vertex in file order.
func Read(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}

	var file giftiFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing texture %s: %w", path, err)
	}
	if len(file.DataArrays) == 0 {
		return nil, fmt.Errorf("texture %s contains no data array", path)
	}

	values, err := decodeArray(&file.DataArrays[0])
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	return values, nil
}

// Write stores a dense texture as a single FLOAT32 data array.
func Write(path string, values []float64, encoding Encoding) error {
	text, err := encodeValues(values, encoding)
	if err != nil {
		return err
	}

	file := giftiFile{
		Version:            "1.0",
		NumberOfDataArrays: 1,
		DataArrays: []dataArray{{
			Intent:             "NIFTI_INTENT_NONE",
			DataType:           "NIFTI_TYPE_FLOAT32",
			ArrayIndexingOrder: "RowMajorOrder",
			Dimensionality:     1,
			Dim0:               len(values),
			Encoding:           string(encoding),
			Endian:             "LittleEndian",
			Data:               text,
		}},
	}

	out, err := xml.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling texture: %w", err)
	}
	out = append([]byte(xml.Header), out...)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing texture file: %w", err)
	}
	return nil
}

func decodeArray(da *dataArray) ([]float64, error) {
	if da.DataType != "NIFTI_TYPE_FLOAT32" {
		return nil, fmt.Errorf("unsupported data type %s", da.DataType)
	}

	switch Encoding(da.Encoding) {
	case ASCII:
		fields := strings.Fields(da.Data)
		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bad ASCII value %q", field)
			}
			values[i] = v
		}
		return values, nil

	case Base64Binary, GZipBase64Binary:
		raw, err := base64.StdEncoding.DecodeString(stripSpace(da.Data))
		if err != nil {
			return nil, fmt.Errorf("decoding base64 payload: %w", err)
		}
		if Encoding(da.Encoding) == GZipBase64Binary {
			zr, err := gzip.NewReader(bytes.NewReader(raw))
			if err != nil {
				return nil, fmt.Errorf("opening gzip payload: %w", err)
			}
			raw, err = io.ReadAll(zr)
			if err != nil {
				return nil, fmt.Errorf("decompressing payload: %w", err)
			}
			if err := zr.Close(); err != nil {
				return nil, fmt.Errorf("decompressing payload: %w", err)
			}
		}
		return decodeFloat32(raw, da.Endian)

	default:
		return nil, fmt.Errorf("unsupported encoding %s", da.Encoding)
	}
}

func decodeFloat32(raw []byte, endian string) ([]float64, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("binary payload length %d is not a multiple of 4", len(raw))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if endian == "BigEndian" {
		order = binary.BigEndian
	}

	values := make([]float64, len(raw)/4)
	for i := range values {
		bits := order.Uint32(raw[4*i:])
		values[i] = float64(math.Float32frombits(bits))
	}
	return values, nil
}

func encodeValues(values []float64, encoding Encoding) (string, error) {
	switch encoding {
	case ASCII:
		var b strings.Builder
		for i, v := range values {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 32))
		}
		return b.String(), nil

	case Base64Binary, GZipBase64Binary:
		raw := make([]byte, 4*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(float32(v)))
		}
		if encoding == GZipBase64Binary {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			if _, err := zw.Write(raw); err != nil {
				return "", fmt.Errorf("compressing payload: %w", err)
			}
			if err := zw.Close(); err != nil {
				return "", fmt.Errorf("compressing payload: %w", err)
			}
			raw = buf.Bytes()
		}
		return base64.StdEncoding.EncodeToString(raw), nil

	default:
		return "", fmt.Errorf("unsupported encoding %s", encoding)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
