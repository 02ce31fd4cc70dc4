package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
)

// memBookmarkRepo understands the filters and $set documents the services build.
type memBookmarkRepo struct {
	bookmarks []*models.Bookmark
}

func (m *memBookmarkRepo) matches(bm *models.Bookmark, filter bson.M) bool {
	for key, val := range filter {
		switch key {
		case "_id":
			if bm.ID != val.(primitive.ObjectID) {
				return false
			}
		case "user_id":
			if bm.UserID != val.(primitive.ObjectID) {
				return false
			}
		case "folder_id":
			if bm.FolderID == nil || *bm.FolderID != val.(primitive.ObjectID) {
				return false
			}
		}
	}
	return true
}

func (m *memBookmarkRepo) Create(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	if bm.ID.IsZero() {
		bm.ID = primitive.NewObjectID()
	}
	bm.TitleKey = models.MatchKey(bm.Title)
	bm.URLKey = models.MatchKey(bm.URL)
	stored := *bm
	m.bookmarks = append(m.bookmarks, &stored)
	return bm, nil
}

func (m *memBookmarkRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bookmark, error) {
	return m.Find(ctx, bson.M{"user_id": userID}, 0, 1)
}

func (m *memBookmarkRepo) Find(ctx context.Context, filter bson.M, limit, page int64) ([]models.Bookmark, error) {
	out := make([]models.Bookmark, 0)
	for _, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			out = append(out, *bm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit == 0 {
		return out, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= int64(len(out)) {
		return []models.Bookmark{}, nil
	}
	end := start + limit
	if end > int64(len(out)) {
		end = int64(len(out))
	}
	return out[start:end], nil
}

func (m *memBookmarkRepo) FindOne(ctx context.Context, filter bson.M) (*models.Bookmark, error) {
	for _, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			found := *bm
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memBookmarkRepo) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	for _, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			applySet(bm, update["$set"].(bson.M))
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (m *memBookmarkRepo) UpdateMany(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	result := &mongo.UpdateResult{}
	for _, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			applySet(bm, update["$set"].(bson.M))
			result.MatchedCount++
			result.ModifiedCount++
		}
	}
	return result, nil
}

func (m *memBookmarkRepo) DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error) {
	for i, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (m *memBookmarkRepo) DeleteMany(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error) {
	result := &mongo.DeleteResult{}
	kept := m.bookmarks[:0]
	for _, bm := range m.bookmarks {
		if m.matches(bm, filter) {
			result.DeletedCount++
			continue
		}
		kept = append(kept, bm)
	}
	m.bookmarks = kept
	return result, nil
}

func applySet(bm *models.Bookmark, set bson.M) {
	for key, val := range set {
		switch key {
		case "title":
			bm.Title = val.(string)
		case "url":
			bm.URL = val.(string)
		case "description":
			bm.Description = val.(string)
		case "title_key":
			bm.TitleKey = val.(string)
		case "url_key":
			bm.URLKey = val.(string)
		case "folder_id":
			switch v := val.(type) {
			case *primitive.ObjectID:
				if v == nil {
					bm.FolderID = nil
				} else {
					id := *v
					bm.FolderID = &id
				}
			case primitive.ObjectID:
				bm.FolderID = &v
			default:
				bm.FolderID = nil
			}
		}
	}
}

type memFolderRepo struct {
	folders []*models.Folder
}

func (m *memFolderRepo) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	for _, f := range m.folders {
		if f.UserID == folder.UserID && f.Name == folder.Name {
			return nil, repositories.ErrDuplicateFolder
		}
	}
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	stored := *folder
	m.folders = append(m.folders, &stored)
	return folder, nil
}

func (m *memFolderRepo) FindByID(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	for _, f := range m.folders {
		if f.ID == folderID && f.UserID == userID {
			found := *f
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memFolderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	out := make([]models.Folder, 0)
	for _, f := range m.folders {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memFolderRepo) Update(ctx context.Context, userID, folderID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error) {
	name, _ := updateFields["name"].(string)
	for _, f := range m.folders {
		if f.UserID == userID && f.Name == name && f.ID != folderID {
			return nil, repositories.ErrDuplicateFolder
		}
	}
	for _, f := range m.folders {
		if f.ID == folderID && f.UserID == userID {
			f.Name = name
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (m *memFolderRepo) Delete(ctx context.Context, userID, folderID primitive.ObjectID) (*mongo.DeleteResult, error) {
	for i, f := range m.folders {
		if f.ID == folderID && f.UserID == userID {
			m.folders = append(m.folders[:i], m.folders[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (m *memFolderRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (*mongo.DeleteResult, error) {
	result := &mongo.DeleteResult{}
	kept := m.folders[:0]
	for _, f := range m.folders {
		if f.UserID == userID {
			result.DeletedCount++
			continue
		}
		kept = append(kept, f)
	}
	m.folders = kept
	return result, nil
}

type memUserRepo struct {
	users []*models.User
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.users {
		switch {
		case u.Email == user.Email:
			return nil, repositories.ErrDuplicateUser
		case u.Username == user.Username:
			return nil, repositories.ErrDuplicateUsername
		case user.GithubLogin != "" && u.GithubLogin == user.GithubLogin:
			return nil, repositories.ErrDuplicateGithub
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	m.users = append(m.users, &stored)
	return user, nil
}

func (m *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *memUserRepo) FindByGithubLogin(ctx context.Context, login string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.GithubLogin != "" && u.GithubLogin == login })
}

func (m *memUserRepo) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == userID })
}

func (m *memUserRepo) Delete(ctx context.Context, userID primitive.ObjectID) (*mongo.DeleteResult, error) {
	for i, u := range m.users {
		if u.ID == userID {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (m *memUserRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}
