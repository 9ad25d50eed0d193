/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mongo

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/syncsphere/syncsphere/api/types"
)

var tID = reflect.TypeOf(types.ID(""))

// NewRegistry returns a new registry that stores types.ID as ObjectID.
// The empty ID is stored as null.
func NewRegistry() *bson.Registry {
	registry := bson.NewRegistry()

	registry.RegisterTypeEncoder(tID, bson.ValueEncoderFunc(idEncoder))
	registry.RegisterTypeDecoder(tID, bson.ValueDecoderFunc(idDecoder))

	return registry
}

func idEncoder(_ bson.EncodeContext, vw bson.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tID {
		return bson.ValueEncoderError{Name: "idEncoder", Types: []reflect.Type{tID}, Received: val}
	}

	id := val.Interface().(types.ID)
	if id.IsZero() {
		if err := vw.WriteNull(); err != nil {
			return fmt.Errorf("encode error: %w", err)
		}
		return nil
	}

	objectID, err := encodeID(id)
	if err != nil {
		return err
	}
	if err := vw.WriteObjectID(objectID); err != nil {
		return fmt.Errorf("encode error: %w", err)
	}
	return nil
}

// encodeID converts the hex ID to an ObjectID.
func encodeID(id types.ID) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id.String())
	if err != nil {
		return objectID, fmt.Errorf("%s: %w", id, types.ErrInvalidID)
	}
	return objectID, nil
}

func idDecoder(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tID {
		return bson.ValueDecoderError{Name: "idDecoder", Types: []reflect.Type{tID}, Received: val}
	}

	switch vr.Type() {
	case bson.TypeObjectID:
		objectID, err := vr.ReadObjectID()
		if err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString(objectID.Hex())
	case bson.TypeString:
		str, err := vr.ReadString()
		if err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString(str)
	case bson.TypeNull:
		if err := vr.ReadNull(); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString("")
	case bson.TypeUndefined:
		if err := vr.ReadUndefined(); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString("")
	default:
		return fmt.Errorf("decode error: cannot decode %v into types.ID", vr.Type())
	}

	return nil
}
