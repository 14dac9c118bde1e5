package remote

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// message is implemented by every request and response. On the wire each one
// is a google.protobuf.Struct carried by the default proto codec.
type message interface {
	toWire() (*structpb.Struct, error)
	fromWire(*structpb.Struct) error
}

func stringFields(kv ...string) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = structpb.NewStringValue(kv[i+1])
	}
	return &structpb.Struct{Fields: fields}
}

func stringOf(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

type empty struct{}

func (empty) toWire() (*structpb.Struct, error) { return &structpb.Struct{}, nil }
func (empty) fromWire(*structpb.Struct) error   { return nil }

func (r *PutRequest) toWire() (*structpb.Struct, error) {
	doc, err := r.Document.ToStruct()
	if err != nil {
		return nil, err
	}
	s := stringFields("collection", r.Collection, "id", r.ID)
	s.Fields["document"] = structpb.NewStructValue(doc)
	return s, nil
}

func (r *PutRequest) fromWire(s *structpb.Struct) error {
	doc, err := DocumentFromStruct(s.GetFields()["document"].GetStructValue())
	if err != nil {
		return err
	}
	r.Collection, r.ID, r.Document = stringOf(s, "collection"), stringOf(s, "id"), doc
	return nil
}

func (r *PutResponse) toWire() (*structpb.Struct, error) { return empty{}.toWire() }
func (r *PutResponse) fromWire(s *structpb.Struct) error { return empty{}.fromWire(s) }

func (r *GetRequest) toWire() (*structpb.Struct, error) {
	return stringFields("collection", r.Collection, "id", r.ID), nil
}

func (r *GetRequest) fromWire(s *structpb.Struct) error {
	r.Collection, r.ID = stringOf(s, "collection"), stringOf(s, "id")
	return nil
}

func (r *GetResponse) toWire() (*structpb.Struct, error) {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{"found": structpb.NewBoolValue(r.Found)}}
	if r.Document != nil {
		doc, err := r.Document.ToStruct()
		if err != nil {
			return nil, err
		}
		s.Fields["document"] = structpb.NewStructValue(doc)
	}
	return s, nil
}

func (r *GetResponse) fromWire(s *structpb.Struct) error {
	r.Found = s.GetFields()["found"].GetBoolValue()
	r.Document = nil
	if ds := s.GetFields()["document"].GetStructValue(); ds != nil {
		doc, err := DocumentFromStruct(ds)
		if err != nil {
			return err
		}
		r.Document = &doc
	}
	return nil
}

func (r *ListByParentRequest) toWire() (*structpb.Struct, error) {
	return stringFields("collection", r.Collection, "parentField", r.ParentField, "parentId", r.ParentID), nil
}

func (r *ListByParentRequest) fromWire(s *structpb.Struct) error {
	r.Collection, r.ParentField, r.ParentID = stringOf(s, "collection"), stringOf(s, "parentField"), stringOf(s, "parentId")
	return nil
}

func (r *ListByParentResponse) toWire() (*structpb.Struct, error) {
	list := make([]*structpb.Value, len(r.Documents))
	for i, d := range r.Documents {
		doc, err := d.ToStruct()
		if err != nil {
			return nil, err
		}
		list[i] = structpb.NewStructValue(doc)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"documents": structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}, nil
}

func (r *ListByParentResponse) fromWire(s *structpb.Struct) error {
	values := s.GetFields()["documents"].GetListValue().GetValues()
	r.Documents = make([]Document, 0, len(values))
	for _, v := range values {
		doc, err := DocumentFromStruct(v.GetStructValue())
		if err != nil {
			return err
		}
		r.Documents = append(r.Documents, doc)
	}
	return nil
}

func (r *DeleteRequest) toWire() (*structpb.Struct, error) {
	return stringFields("collection", r.Collection, "id", r.ID), nil
}

func (r *DeleteRequest) fromWire(s *structpb.Struct) error {
	r.Collection, r.ID = stringOf(s, "collection"), stringOf(s, "id")
	return nil
}

func (r *DeleteResponse) toWire() (*structpb.Struct, error) { return empty{}.toWire() }
func (r *DeleteResponse) fromWire(s *structpb.Struct) error { return empty{}.fromWire(s) }

func (r *PingRequest) toWire() (*structpb.Struct, error) { return empty{}.toWire() }
func (r *PingRequest) fromWire(s *structpb.Struct) error { return empty{}.fromWire(s) }

func (r *PingResponse) toWire() (*structpb.Struct, error) { return empty{}.toWire() }
func (r *PingResponse) fromWire(s *structpb.Struct) error { return empty{}.fromWire(s) }

func (r *PresignUploadRequest) toWire() (*structpb.Struct, error) {
	return stringFields("mediaId", r.MediaID, "contentHash", r.ContentHash, "contentType", r.ContentType), nil
}

func (r *PresignUploadRequest) fromWire(s *structpb.Struct) error {
	r.MediaID, r.ContentHash, r.ContentType = stringOf(s, "mediaId"), stringOf(s, "contentHash"), stringOf(s, "contentType")
	return nil
}

func (r *PresignUploadResponse) toWire() (*structpb.Struct, error) {
	return stringFields("uploadUrl", r.UploadURL, "remoteUrl", r.RemoteURL), nil
}

func (r *PresignUploadResponse) fromWire(s *structpb.Struct) error {
	r.UploadURL, r.RemoteURL = stringOf(s, "uploadUrl"), stringOf(s, "remoteUrl")
	return nil
}
