package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viralforge/rental-service/internal/application"
	"github.com/viralforge/rental-service/internal/domain"
)

const serviceName = "viralforge.rental.v1.RentalInternalService"

// RentalInternalService is the internal read surface other services use to
// resolve listings and current residency.
type RentalInternalService interface {
	GetHouse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetResidency(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type RentalInternalServer struct {
	service *application.Service
}

func NewRentalInternalServer(service *application.Service) *RentalInternalServer {
	return &RentalInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc RentalInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*RentalInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetHouse", Handler: unaryHandler("GetHouse", svc.GetHouse)},
			{MethodName: "GetResidency", Handler: unaryHandler("GetResidency", svc.GetResidency)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "rental/v1/rental_internal.proto",
	}, svc)
}

func (s *RentalInternalServer) GetHouse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	houseID := stringField(req, "house_id")
	if houseID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing house_id")
	}
	house, err := s.service.GetHouse(ctx, houseID)
	if err != nil {
		return nil, toStatus(err)
	}
	return houseStruct(house)
}

func (s *RentalInternalServer) GetResidency(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	renterID := stringField(req, "renter_id")
	if renterID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing renter_id")
	}
	residency, err := s.service.ResidencyOf(ctx, renterID)
	if errors.Is(err, domain.ErrNotFound) {
		return structpb.NewStruct(map[string]any{"renter_id": renterID, "resident": false})
	}
	if err != nil {
		return nil, toStatus(err)
	}
	house, err := houseStruct(residency.House)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"renter_id": structpb.NewStringValue(renterID),
		"resident":  structpb.NewBoolValue(true),
		"house":     structpb.NewStructValue(house),
	}}, nil
}

func houseStruct(h application.HouseView) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":            h.ID,
		"owner_id":      h.OwnerID,
		"title":         h.Title,
		"location":      h.Location,
		"rent":          h.Rent,
		"property_type": h.PropertyType,
		"furnishing":    h.Furnishing,
		"is_booked":     h.IsBooked,
		"pending":       float64(len(h.Requests)),
	}
	if h.CurrentTenant != nil {
		fields["tenant"] = map[string]any{
			"renter_id":    h.CurrentTenant.RenterID,
			"name":         h.CurrentTenant.Name,
			"is_rent_paid": h.CurrentTenant.IsRentPaid,
			"start_date":   h.CurrentTenant.StartDate.Unix(),
		}
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return out, nil
}

func stringField(req *structpb.Struct, key string) string {
	if v := req.GetFields()[key]; v != nil {
		return v.GetStringValue()
	}
	return ""
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

type unaryMethod func(context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
