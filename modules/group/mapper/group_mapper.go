package mapper

import (
	"groupcal/modules/group/dto"
	"groupcal/modules/group/entity"
)

func ToGroupResponse(group *entity.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		OwnerID:     group.OwnerID,
		JoinKey:     group.JoinKey,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

// ToGroupResponseWithoutKey hides the join key from non-owner members
func ToGroupResponseWithoutKey(group *entity.Group) *dto.GroupResponse {
	resp := ToGroupResponse(group)
	resp.JoinKey = ""
	return resp
}

func ToMemberResponse(member *entity.MemberDetail) *dto.MemberResponse {
	return &dto.MemberResponse{
		UserID:   member.UserID,
		Username: member.Username,
		Email:    member.Email,
		JoinedAt: member.JoinedAt,
	}
}

func ToGroupPaginationResponse(groups *entity.PaginatedGroupEntity) *dto.PaginatedGroupResponse {
	items := make([]dto.GroupResponse, len(groups.Items))
	for i := range groups.Items {
		items[i] = *ToGroupResponse(&groups.Items[i])
	}
	return &dto.PaginatedGroupResponse{
		Items:      items,
		TotalItems: groups.TotalItems,
		PageNumber: groups.PageNumber,
		PageSize:   groups.PageSize,
	}
}
