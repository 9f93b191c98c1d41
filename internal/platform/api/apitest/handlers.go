package apitest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) userJSON(u *User) gin.H {
	var invitedTG interface{}
	if u.InvitedBy != nil {
		if inviter, ok := s.users[*u.InvitedBy]; ok {
			invitedTG = inviter.TelegramID
		}
	}
	subs := u.Subscriptions
	if subs == nil {
		subs = []int64{}
	}
	return gin.H{
		"id":                     u.ID,
		"telegram_id":            u.TelegramID,
		"first_name":             u.FirstName,
		"last_name":              u.LastName,
		"username":               u.Username,
		"photo_url":              u.PhotoURL,
		"language":               u.Language,
		"theme_color":            u.ThemeColor,
		"registration_time":      u.Registered.Format("2006-01-02T15:04:05Z07:00"),
		"last_visit":             u.LastVisit.Format("2006-01-02T15:04:05Z07:00"),
		"invited_by":             idOrNil(u.InvitedBy),
		"invited_by_telegram_id": invitedTG,
		"gifts_given":            u.GiftsGiven,
		"gifts_received":         u.GiftsReceived,
		"subscriptions":          subs,
	}
}

func (s *Server) wishlistJSON(wl *Wishlist) gin.H {
	count := 0
	for _, w := range s.wishes {
		if w.WishlistID == wl.ID {
			count++
		}
	}
	return gin.H{
		"id":           wl.ID,
		"user":         wl.UserID,
		"name":         wl.Name,
		"description":  wl.Description,
		"is_public":    wl.IsPublic,
		"order":        wl.Order,
		"wishes_count": count,
		"created_at":   wl.CreatedAt.Format(timeLayout),
		"updated_at":   wl.UpdatedAt.Format(timeLayout),
	}
}

func (s *Server) wishJSON(w *Wish) gin.H {
	var price interface{}
	if w.Price != "" {
		price = w.Price
	}
	var wishlistName string
	if wl, ok := s.wishlists[w.WishlistID]; ok {
		wishlistName = wl.Name
	}
	var ownerTG interface{}
	if u, ok := s.users[w.UserID]; ok {
		ownerTG = u.TelegramID
	}
	return gin.H{
		"id":               w.ID,
		"wishlist":         w.WishlistID,
		"wishlist_id":      w.WishlistID,
		"wishlist_name":    wishlistName,
		"user":             w.UserID,
		"user_id":          w.UserID,
		"user_telegram_id": ownerTG,
		"title":            w.Title,
		"comment":          w.Comment,
		"link":             w.Link,
		"image_url":        w.ImageURL,
		"price":            price,
		"currency":         w.Currency,
		"order":            w.Order,
		"status":           w.Status,
		"is_fulfilled":     w.Status == "fulfilled",
		"reserved_by":      idOrNil(w.ReservedBy),
		"reserved_by_id":   idOrNil(w.ReservedBy),
		"gifted_by":        idOrNil(w.GiftedBy),
		"gifted_by_id":     idOrNil(w.GiftedBy),
		"reserved_at":      fmtTime(w.ReservedAt),
		"gifted_at":        fmtTime(w.GiftedAt),
		"created_at":       w.CreatedAt.Format(timeLayout),
		"updated_at":       w.UpdatedAt.Format(timeLayout),
	}
}

// users

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	items := []gin.H{}
	for _, u := range s.sortedUsers() {
		items = append(items, s.userJSON(u))
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) registerOrGet(c *gin.Context) {
	body := bodyOf(c)
	tgID, _ := intField(body, "telegram_id")
	if tgID == nil {
		badRequest(c, "Параметр telegram_id обязателен")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByTG(*tgID)
	created := u == nil
	if created {
		s.nextID++
		u = &User{ID: s.nextID, TelegramID: *tgID, Language: "ru", ThemeColor: "light", Registered: s.now}
		s.users[u.ID] = u
	}
	for key, dst := range map[string]*string{
		"first_name":  &u.FirstName,
		"last_name":   &u.LastName,
		"username":    &u.Username,
		"photo_url":   &u.PhotoURL,
		"language":    &u.Language,
		"theme_color": &u.ThemeColor,
	} {
		if v, ok := strField(body, key); ok {
			*dst = v
		}
	}
	u.LastVisit = s.tick()

	if start, ok := strField(body, "start_param"); ok && start != "" && u.InvitedBy == nil {
		if inviterTG, err := strconv.ParseInt(start, 10, 64); err == nil && inviterTG != *tgID {
			if inviter := s.userByTG(inviterTG); inviter != nil {
				id := inviter.ID
				u.InvitedBy = &id
			}
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, s.userJSON(u))
}

func (s *Server) userByTelegramID(c *gin.Context) {
	tgID, ok := queryID(c, "telegram_id")
	if !ok {
		badRequest(c, "Параметр telegram_id обязателен")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByTG(tgID)
	if u == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.userJSON(u))
}

func (s *Server) getUser(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.userJSON(u))
}

func (s *Server) patchUser(c *gin.Context) {
	id, _ := pathID(c)
	body := bodyOf(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		notFound(c)
		return
	}
	for key, dst := range map[string]*string{
		"first_name":  &u.FirstName,
		"last_name":   &u.LastName,
		"username":    &u.Username,
		"photo_url":   &u.PhotoURL,
		"language":    &u.Language,
		"theme_color": &u.ThemeColor,
	} {
		if v, ok := strField(body, key); ok {
			*dst = v
		}
	}
	c.JSON(http.StatusOK, s.userJSON(u))
}

func (s *Server) subscriptions(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		notFound(c)
		return
	}
	items := []gin.H{}
	for _, followed := range u.Subscriptions {
		if f, ok := s.users[followed]; ok {
			items = append(items, s.userJSON(f))
		}
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) subscribers(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		notFound(c)
		return
	}
	items := []gin.H{}
	for _, u := range s.sortedUsers() {
		for _, followed := range u.Subscriptions {
			if followed == id {
				items = append(items, s.userJSON(u))
			}
		}
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) subscribe(c *gin.Context) {
	s.editEdge(c, true)
}

func (s *Server) unsubscribe(c *gin.Context) {
	s.editEdge(c, false)
}

func (s *Server) editEdge(c *gin.Context, add bool) {
	id, _ := pathID(c)
	target, _ := intField(bodyOf(c), "user_id")
	if target == nil {
		badRequest(c, "Параметр user_id обязателен")
		return
	}
	if *target == id {
		badRequest(c, "Нельзя подписаться на самого себя")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		notFound(c)
		return
	}
	if _, ok := s.users[*target]; !ok {
		notFound(c)
		return
	}
	if add {
		u.Subscriptions = appendUnique(u.Subscriptions, *target)
	} else {
		kept := u.Subscriptions[:0]
		for _, x := range u.Subscriptions {
			if x != *target {
				kept = append(kept, x)
			}
		}
		u.Subscriptions = kept
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// wishlists

func (s *Server) listWishlists(c *gin.Context) {
	userID, filtered := queryID(c, "user_id")
	s.mu.Lock()
	items := []gin.H{}
	for _, wl := range s.sortedWishlists() {
		if filtered && wl.UserID != userID {
			continue
		}
		items = append(items, s.wishlistJSON(wl))
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) wishlistsByTelegramID(c *gin.Context) {
	tgID, ok := queryID(c, "telegram_id")
	if !ok {
		badRequest(c, "Параметр telegram_id обязателен")
		return
	}
	s.mu.Lock()
	u := s.userByTG(tgID)
	if u == nil {
		s.mu.Unlock()
		notFound(c)
		return
	}
	items := []gin.H{}
	for _, wl := range s.sortedWishlists() {
		if wl.UserID == u.ID {
			items = append(items, s.wishlistJSON(wl))
		}
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) createWishlist(c *gin.Context) {
	body := bodyOf(c)
	tgID, _ := intField(body, "telegram_id")
	name, _ := strField(body, "name")
	if tgID == nil {
		badRequest(c, "Пользователь не указан")
		return
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"name": []string{"This field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByTG(*tgID)
	if u == nil {
		badRequest(c, "Пользователь не найден")
		return
	}
	s.nextID++
	wl := &Wishlist{ID: s.nextID, UserID: u.ID, Name: name, IsPublic: true}
	wl.Description, _ = strField(body, "description")
	if order, _ := intField(body, "order"); order != nil {
		wl.Order = int(*order)
	}
	if v, ok := body["is_public"].(bool); ok {
		wl.IsPublic = v
	}
	wl.CreatedAt = s.tick()
	wl.UpdatedAt = wl.CreatedAt
	s.wishlists[wl.ID] = wl
	c.JSON(http.StatusCreated, s.wishlistJSON(wl))
}

func (s *Server) getWishlist(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	wl, ok := s.wishlists[id]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.wishlistJSON(wl))
}

func (s *Server) patchWishlist(c *gin.Context) {
	id, _ := pathID(c)
	body := bodyOf(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	wl, ok := s.wishlists[id]
	if !ok {
		notFound(c)
		return
	}
	if v, ok := strField(body, "name"); ok {
		wl.Name = v
	}
	if v, ok := strField(body, "description"); ok {
		wl.Description = v
	}
	if v, _ := intField(body, "order"); v != nil {
		wl.Order = int(*v)
	}
	if v, ok := body["is_public"].(bool); ok {
		wl.IsPublic = v
	}
	wl.UpdatedAt = s.tick()
	c.JSON(http.StatusOK, s.wishlistJSON(wl))
}

func (s *Server) deleteWishlist(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlists[id]; !ok {
		notFound(c)
		return
	}
	delete(s.wishlists, id)
	for wid, w := range s.wishes {
		if w.WishlistID == id {
			delete(s.wishes, wid)
		}
	}
	c.Status(http.StatusNoContent)
}

// wishes

func (s *Server) listWishes(c *gin.Context) {
	wishlistID, byWishlist := queryID(c, "wishlist_id")
	userID, byUser := queryID(c, "user_id")
	tgID, byTG := queryID(c, "telegram_id")
	status := c.Query("status")

	s.mu.Lock()
	items := []gin.H{}
	for _, w := range s.sortedWishes() {
		if byWishlist && w.WishlistID != wishlistID {
			continue
		}
		if byUser && w.UserID != userID {
			continue
		}
		if byTG {
			if u, ok := s.users[w.UserID]; !ok || u.TelegramID != tgID {
				continue
			}
		}
		if status != "" && w.Status != status {
			continue
		}
		items = append(items, s.wishJSON(w))
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) wishesByTelegramID(c *gin.Context) {
	tgID, ok := queryID(c, "telegram_id")
	if !ok {
		badRequest(c, "Параметр telegram_id обязателен")
		return
	}
	s.mu.Lock()
	u := s.userByTG(tgID)
	if u == nil {
		s.mu.Unlock()
		notFound(c)
		return
	}
	items := []gin.H{}
	for _, w := range s.sortedWishes() {
		if w.UserID == u.ID {
			items = append(items, s.wishJSON(w))
		}
	}
	s.mu.Unlock()
	s.writeList(c, items)
}

func (s *Server) createWish(c *gin.Context) {
	body := bodyOf(c)
	wishlistID, _ := intField(body, "wishlist")
	title, _ := strField(body, "title")
	if wishlistID == nil || title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"title": []string{"This field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wl, ok := s.wishlists[*wishlistID]
	if !ok {
		badRequest(c, "Вишлист не найден")
		return
	}
	s.nextID++
	w := &Wish{ID: s.nextID, WishlistID: wl.ID, UserID: wl.UserID, Title: title, Status: "active", Currency: "₽"}
	s.applyWishFields(w, body)
	w.CreatedAt = s.tick()
	w.UpdatedAt = w.CreatedAt
	s.wishes[w.ID] = w
	c.JSON(http.StatusCreated, s.wishJSON(w))
}

func (s *Server) applyWishFields(w *Wish, body map[string]interface{}) {
	for key, dst := range map[string]*string{
		"title":     &w.Title,
		"comment":   &w.Comment,
		"link":      &w.Link,
		"image_url": &w.ImageURL,
		"currency":  &w.Currency,
	} {
		if v, ok := strField(body, key); ok {
			*dst = v
		}
	}
	if raw, ok := body["price"]; ok {
		switch p := raw.(type) {
		case float64:
			w.Price = strconv.FormatFloat(p, 'f', 2, 64)
		case string:
			w.Price = p
		case nil:
			w.Price = ""
		}
	}
	if v, _ := intField(body, "order"); v != nil {
		w.Order = int(*v)
	}
}

func (s *Server) getWish(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.wishJSON(w))
}

// patchWish follows the backend's update rules: entering reserved stamps
// reserved_at, leaving it clears the reservation unless one is sent.
func (s *Server) patchWish(c *gin.Context) {
	id, _ := pathID(c)
	body := bodyOf(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		notFound(c)
		return
	}
	if v, _ := intField(body, "wishlist"); v != nil {
		if _, ok := s.wishlists[*v]; !ok {
			badRequest(c, "Вишлист не найден")
			return
		}
		w.WishlistID = *v
	}
	s.applyWishFields(w, body)

	oldStatus := w.Status
	newStatus := oldStatus
	if v, ok := strField(body, "status"); ok {
		newStatus = v
	}
	reservedBy, reservedPresent := intField(body, "reserved_by")
	if reservedPresent {
		if reservedBy != nil {
			if _, ok := s.users[*reservedBy]; !ok {
				badRequest(c, "Пользователь не найден")
				return
			}
		}
		w.ReservedBy = reservedBy
	}
	switch {
	case oldStatus != "reserved" && newStatus == "reserved":
		now := s.tick()
		w.ReservedAt = &now
	case oldStatus == "reserved" && newStatus != "reserved":
		w.ReservedAt = nil
		if !reservedPresent {
			w.ReservedBy = nil
		}
	}
	w.Status = newStatus
	w.UpdatedAt = s.tick()
	c.JSON(http.StatusOK, s.wishJSON(w))
}

func (s *Server) deleteWish(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishes[id]; !ok {
		notFound(c)
		return
	}
	delete(s.wishes, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) fulfill(c *gin.Context) {
	id, _ := pathID(c)
	giftedBy, _ := intField(bodyOf(c), "gifted_by_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		notFound(c)
		return
	}
	if giftedBy != nil {
		if _, ok := s.users[*giftedBy]; !ok {
			badRequest(c, "Пользователь не найден")
			return
		}
		w.GiftedBy = giftedBy
	}
	now := s.tick()
	w.Status = "fulfilled"
	w.GiftedAt = &now
	w.ReservedBy = nil
	w.ReservedAt = nil
	if owner, ok := s.users[w.UserID]; ok {
		owner.GiftsReceived++
	}
	if w.GiftedBy != nil {
		if gifter, ok := s.users[*w.GiftedBy]; ok {
			gifter.GiftsGiven++
		}
	}
	c.JSON(http.StatusOK, s.wishJSON(w))
}

func (s *Server) unfulfill(c *gin.Context) {
	id, _ := pathID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		notFound(c)
		return
	}
	if w.GiftedBy != nil {
		if owner, ok := s.users[w.UserID]; ok && owner.GiftsReceived > 0 {
			owner.GiftsReceived--
		}
		if gifter, ok := s.users[*w.GiftedBy]; ok && gifter.GiftsGiven > 0 {
			gifter.GiftsGiven--
		}
	}
	w.Status = "active"
	w.GiftedBy = nil
	w.GiftedAt = nil
	c.JSON(http.StatusOK, s.wishJSON(w))
}

func (s *Server) move(c *gin.Context) {
	id, _ := pathID(c)
	target, _ := intField(bodyOf(c), "wishlist_id")
	if target == nil {
		badRequest(c, "Параметр wishlist_id обязателен")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		notFound(c)
		return
	}
	wl, ok := s.wishlists[*target]
	if !ok {
		notFound(c)
		return
	}
	if wl.UserID != w.UserID {
		badRequest(c, "Нельзя переместить желание в вишлист другого пользователя")
		return
	}
	w.WishlistID = wl.ID
	c.JSON(http.StatusOK, s.wishJSON(w))
}
