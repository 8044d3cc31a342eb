// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/poiesic/digitalpulse/core"
)

// RecordMUS is the MUS serializer for core.Record.
// Fields are written in Columns order, each as a length-prefixed string.
var RecordMUS = recordMUS{}

var _ mus.Serializer[core.Record] = RecordMUS

type recordMUS struct{}

func (s recordMUS) Marshal(v core.Record, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.TopicID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	return n + ord.String.Marshal(v.Effectiveness, bs[n:])
}

func (s recordMUS) Unmarshal(bs []byte) (v core.Record, n int, err error) {
	fields := []*string{&v.ID, &v.TopicID, &v.Text, &v.Type, &v.Effectiveness}
	for _, field := range fields {
		var n1 int
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s recordMUS) Size(v core.Record) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.TopicID)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Type)
	return size + ord.String.Size(v.Effectiveness)
}

func (s recordMUS) Skip(bs []byte) (n int, err error) {
	for range Columns {
		var n1 int
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(record))
	RecordMUS.Marshal(record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	record, n, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return core.Record{}, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return record, nil
}
