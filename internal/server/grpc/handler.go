package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func field(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func (s *GRPCServer) Provision(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	h := s.bridge.Provision(field(req, FieldPath), field(req, FieldRawKey))
	return wrapperspb.String(s.bridge.Take(h)), nil
}

func (s *GRPCServer) InsertEntry(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	h := s.bridge.InsertEntry(field(req, FieldPath), field(req, FieldRawKey), field(req, FieldName), field(req, FieldValue))
	return wrapperspb.String(s.bridge.Take(h)), nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	h := s.bridge.ListEntries(field(req, FieldPath), field(req, FieldRawKey))
	return wrapperspb.String(s.bridge.Take(h)), nil
}

func (s *GRPCServer) ImportBulk(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	h := s.bridge.ImportBulk(field(req, FieldPath), field(req, FieldRawKey), field(req, FieldPayload))
	return wrapperspb.String(s.bridge.Take(h)), nil
}

func (s *GRPCServer) ListCategories(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	h := s.bridge.ListCategories(field(req, FieldPath), field(req, FieldRawKey))
	return wrapperspb.String(s.bridge.Take(h)), nil
}
